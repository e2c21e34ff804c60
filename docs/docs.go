// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/raw-materials": {
            "get": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "List raw materials",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Register a raw material",
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/raw-materials/{id}": {
            "get": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Get a raw material",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Update a raw material",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Delete an unreferenced raw material",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/raw-materials/{id}/stock": {
            "patch": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Adjust stock by a signed delta",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/raw-materials/{id}/movements": {
            "get": {
                "tags": [
                    "raw-materials"
                ],
                "summary": "Stock ledger of a raw material, newest first",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/products": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "List products with their bill of materials",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "products"
                ],
                "summary": "Create a product with its bill of materials",
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/products/{id}": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Get a product",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "products"
                ],
                "summary": "Update a product, replacing its bill of materials",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "products"
                ],
                "summary": "Delete a product and its bill of materials",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/product-materials": {
            "get": {
                "tags": [
                    "product-materials"
                ],
                "summary": "List all bill-of-materials lines",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "product-materials"
                ],
                "summary": "Add a line to a product",
                "responses": {
                    "201": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/product-materials/{id}": {
            "get": {
                "tags": [
                    "product-materials"
                ],
                "summary": "Get a line",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "product-materials"
                ],
                "summary": "Change a line's material or quantity",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "request body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "product-materials"
                ],
                "summary": "Remove a line",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/product-materials/product/{productId}": {
            "get": {
                "tags": [
                    "product-materials"
                ],
                "summary": "Lines of one product",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "productId",
                        "name": "productId",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/production/suggestions": {
            "get": {
                "tags": [
                    "production"
                ],
                "summary": "Greedy production suggestion, highest price first",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/production/capacity": {
            "get": {
                "tags": [
                    "production"
                ],
                "summary": "Independent capacity of every product",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/production/capacity/{productId}": {
            "get": {
                "tags": [
                    "production"
                ],
                "summary": "Capacity of one product with per-line allowances",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "productId",
                        "name": "productId",
                        "in": "path",
                        "required": true
                    }
                ],
                "produces": [
                    "application/json"
                ]
            }
        },
        "/production/report.pdf": {
            "get": {
                "tags": [
                    "production"
                ],
                "summary": "Suggestion report as PDF",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/pdf"
                ]
            }
        },
        "/production/report.xlsx": {
            "get": {
                "tags": [
                    "production"
                ],
                "summary": "Suggestion report as XLSX",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ]
            }
        },
        "/jobs/dead-letters": {
            "get": {
                "tags": [
                    "jobs"
                ],
                "summary": "List e-mail jobs that exhausted their retries, newest first",
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "ops"
                ],
                "summary": "Database and Redis status",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "produces": [
                    "application/json"
                ]
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Industrial Inventory API",
	Description:      "Raw materials, bills of materials and production capacity.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
