package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/stain603/industrial-inventory-manager/internal/client"
	"github.com/stain603/industrial-inventory-manager/internal/dto"

	"github.com/shopspring/decimal"
)

var errUsage = errors.New("unknown command")

type command struct {
	api *client.Client
	out io.Writer
}

func (c *command) dispatch(ctx context.Context, group, name string, args []string) error {
	switch group + " " + name {
	case "materials list":
		return c.materialsList(ctx, args)
	case "materials add":
		return c.materialsAdd(ctx, args)
	case "materials stock":
		return c.materialsStock(ctx, args)
	case "products list":
		return c.productsList(ctx)
	case "products add":
		return c.productsAdd(ctx, args)
	case "products rm":
		return c.productsRemove(ctx, args)
	case "production suggestions":
		return c.suggestions(ctx)
	case "production capacity":
		return c.capacity(ctx, args)
	}
	return fmt.Errorf("%w: %s %s", errUsage, group, name)
}

func (c *command) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

// ── materials ─────────────────────────────────────────────────────────────────

func (c *command) materialsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("materials list", flag.ContinueOnError)
	q := fs.String("q", "", "filter on code or name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	list, err := c.api.ListRawMaterials(ctx, *q)
	if err != nil {
		return err
	}
	w := c.table()
	fmt.Fprintln(w, "CODE\tNAME\tSTOCK\tUNIT\tCOST")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Code, m.Name, m.StockQuantity, m.Unit, m.CostPerUnit.StringFixed(2))
	}
	return w.Flush()
}

func (c *command) materialsAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("materials add", flag.ContinueOnError)
	code := fs.String("code", "", "unique code")
	name := fs.String("name", "", "display name")
	stock := fs.String("stock", "0", "initial stock")
	unit := fs.String("unit", "", "unit of measure")
	cost := fs.String("cost", "0", "cost per unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req := dto.CreateRawMaterialRequest{Code: *code, Name: *name, Unit: *unit}
	var err error
	if req.StockQuantity, err = decimal.NewFromString(*stock); err != nil {
		return fmt.Errorf("-stock: %w", err)
	}
	if req.CostPerUnit, err = decimal.NewFromString(*cost); err != nil {
		return fmt.Errorf("-cost: %w", err)
	}
	m, err := c.api.CreateRawMaterial(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s (%s)\n", m.Code, m.ID)
	return nil
}

func (c *command) materialsStock(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("materials stock", flag.ContinueOnError)
	code := fs.String("code", "", "raw material code")
	delta := fs.String("delta", "", "signed quantity to add")
	reason := fs.String("reason", "", "free text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := decimal.NewFromString(*delta)
	if err != nil {
		return fmt.Errorf("-delta: %w", err)
	}
	m, err := c.api.RawMaterialByCode(ctx, *code)
	if err != nil {
		return err
	}
	m, err = c.api.AdjustStock(ctx, m.ID, dto.AdjustStockRequest{Delta: d, Reason: *reason})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s stock now %s %s\n", m.Code, m.StockQuantity, m.Unit)
	return nil
}

// ── products ──────────────────────────────────────────────────────────────────

func (c *command) productsList(ctx context.Context) error {
	list, err := c.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	w := c.table()
	fmt.Fprintln(w, "CODE\tNAME\tPRICE\tBOM")
	for _, p := range list {
		parts := make([]string, 0, len(p.Materials))
		for _, l := range p.Materials {
			parts = append(parts, l.RawMaterial.Code+":"+l.QuantityRequired.String())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Code, p.Name, p.Price.StringFixed(2), strings.Join(parts, ","))
	}
	return w.Flush()
}

func (c *command) productsAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products add", flag.ContinueOnError)
	code := fs.String("code", "", "unique code")
	name := fs.String("name", "", "display name")
	price := fs.String("price", "0", "unit price")
	bom := fs.String("bom", "", "CODE:QTY,... raw materials per unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := decimal.NewFromString(*price)
	if err != nil {
		return fmt.Errorf("-price: %w", err)
	}
	entries, err := parseBOM(*bom)
	if err != nil {
		return err
	}
	req := dto.CreateProductRequest{Code: *code, Name: *name, Price: p}
	for _, e := range entries {
		m, err := c.api.RawMaterialByCode(ctx, e.code)
		if err != nil {
			return err
		}
		req.Materials = append(req.Materials, dto.BOMLineRequest{RawMaterialID: m.ID, QuantityRequired: e.qty})
	}
	created, err := c.api.CreateProduct(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created %s (%s) with %d BOM lines\n", created.Code, created.ID, len(created.Materials))
	return nil
}

func (c *command) productsRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products rm", flag.ContinueOnError)
	code := fs.String("code", "", "product code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := c.api.ProductByCode(ctx, *code)
	if err != nil {
		return err
	}
	if err := c.api.DeleteProduct(ctx, p.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", p.Code)
	return nil
}

type bomEntry struct {
	code string
	qty  decimal.Decimal
}

// parseBOM reads "PINE:4,SCREW:16".
func parseBOM(s string) ([]bomEntry, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []bomEntry
	for _, part := range strings.Split(s, ",") {
		code, qty, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || code == "" {
			return nil, fmt.Errorf("bom entry %q: want CODE:QTY", part)
		}
		d, err := decimal.NewFromString(qty)
		if err != nil {
			return nil, fmt.Errorf("bom entry %q: %w", part, err)
		}
		out = append(out, bomEntry{code: code, qty: d})
	}
	return out, nil
}

// ── production ────────────────────────────────────────────────────────────────

func (c *command) suggestions(ctx context.Context) error {
	list, err := c.api.Suggestions(ctx)
	if err != nil {
		return err
	}
	w := c.table()
	fmt.Fprintln(w, "CODE\tNAME\tPRICE\tQTY\tVALUE")
	total := decimal.Zero
	for _, s := range list {
		total = total.Add(s.TotalValue)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.Code, s.Name, s.Price.StringFixed(2), s.ProducibleQuantity, s.TotalValue.StringFixed(2))
	}
	fmt.Fprintf(w, "TOTAL\t\t\t\t%s\n", total.StringFixed(2))
	return w.Flush()
}

func (c *command) capacity(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("production capacity", flag.ContinueOnError)
	code := fs.String("code", "", "single product with per-line detail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := c.table()
	if *code == "" {
		report, err := c.api.Capacity(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "CODE\tNAME\tQTY\tVALUE")
		for _, s := range report.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Code, s.Name, s.ProducibleQuantity, s.TotalValue.StringFixed(2))
		}
		fmt.Fprintf(w, "TOTAL\t%d products\t%d\t%s\n", report.Summary.Products, report.Summary.TotalUnits, report.Summary.TotalValue.StringFixed(2))
		return w.Flush()
	}

	p, err := c.api.ProductByCode(ctx, *code)
	if err != nil {
		return err
	}
	detail, err := c.api.ProductCapacity(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s: %d units, value %s\n", detail.Code, detail.ProducibleQuantity, detail.TotalValue.StringFixed(2))
	fmt.Fprintln(w, "MATERIAL\tREQUIRED\tSTOCK\tALLOWS\t")
	for _, l := range detail.Lines {
		allows := "-"
		if l.Allowance != nil {
			allows = fmt.Sprint(*l.Allowance)
		}
		mark := ""
		if l.Limiting {
			mark = "limiting"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.RawMaterialCode, l.QuantityRequired, l.StockQuantity, allows, mark)
	}
	return w.Flush()
}
