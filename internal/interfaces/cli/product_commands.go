package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stockctl/internal/application/catalog"
	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/listing"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/internal/domain/entity"
	"github.com/jhoicas/stockctl/internal/domain/inventory"
	"github.com/jhoicas/stockctl/internal/infrastructure/csvimport"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/internal/pkg/format"
)

// ── Flags compartidas ───────────────────────────────────────────────────────

// filterFlags registra una flag por clave de filtro: data_compra_inicio se
// escribe --data-compra-inicio.
func filterFlags(fs *pflag.FlagSet) map[string]*string {
	out := make(map[string]*string, len(inventory.FilterKeys))
	for _, key := range inventory.FilterKeys {
		out[key] = fs.String(strings.ReplaceAll(key, "_", "-"), "", "filtro "+key)
	}
	return out
}

func criteriaFrom(flags map[string]*string) listing.Criteria {
	c := listing.Criteria{}
	for k, v := range flags {
		if *v != "" {
			c[k] = *v
		}
	}
	return c
}

type productFlags struct {
	fs   *pflag.FlagSet
	form catalog.ProductForm
}

func newProductFlags(fs *pflag.FlagSet) *productFlags {
	pf := &productFlags{fs: fs}
	fs.StringVar(&pf.form.Type, "tipo", "", "tipo de producto (Ração, Areia...)")
	fs.StringVar(&pf.form.Brand, "marca", "", "marca")
	fs.StringVar(&pf.form.Quantity, "quantidade", "", "unidades en estoque")
	fs.StringVar(&pf.form.Weight, "peso", "", "peso en kg")
	fs.StringVar(&pf.form.Supplier, "fornecedor", "", "proveedor")
	fs.StringVar(&pf.form.Price, "preco", "", "precio unitario (acepta coma decimal)")
	fs.StringVar(&pf.form.PurchaseDate, "data-compra", "", "fecha de compra (dd/mm/aaaa o aaaa-mm-dd)")
	fs.StringVar(&pf.form.ExpirationDate, "data-validade", "", "fecha de vencimiento")
	fs.StringVar(&pf.form.Notes, "observacoes", "", "observaciones")
	return pf
}

// overlay aplica sobre base solo las flags que el usuario escribió.
func (pf *productFlags) overlay(base catalog.ProductForm) catalog.ProductForm {
	set := func(name string, dst *string, v string) {
		if pf.fs.Changed(name) {
			*dst = v
		}
	}
	set("tipo", &base.Type, pf.form.Type)
	set("marca", &base.Brand, pf.form.Brand)
	set("quantidade", &base.Quantity, pf.form.Quantity)
	set("peso", &base.Weight, pf.form.Weight)
	set("fornecedor", &base.Supplier, pf.form.Supplier)
	set("preco", &base.Price, pf.form.Price)
	set("data-compra", &base.PurchaseDate, pf.form.PurchaseDate)
	set("data-validade", &base.ExpirationDate, pf.form.ExpirationDate)
	set("observacoes", &base.Notes, pf.form.Notes)
	return base
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id inválido %q", errUsage, args[0])
	}
	return id, nil
}

// ── products ────────────────────────────────────────────────────────────────

func runProducts(ctx context.Context, a *App, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Uso: stockctl products list|get|create|update|delete")
		return errUsage
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return productsList(ctx, a, rest)
	case "get":
		return productsGet(ctx, a, rest)
	case "create":
		return productsCreate(ctx, a, rest)
	case "update":
		return productsUpdate(ctx, a, rest)
	case "delete":
		return productsDelete(ctx, a, rest)
	}
	fmt.Fprintf(a.errOut, "subcomando desconocido %q\n", sub)
	return errUsage
}

func (a *App) newListing() *listing.Controller {
	return listing.NewController(a.api, listing.Options{PageSize: a.cfg.UI.PageSize, Clock: a.clock, Logger: a.log})
}

func productsList(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("products list", "products list [--page N] [filtros]")
	page := fs.Int("page", 1, "página")
	filters := filterFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	lc := a.newListing()
	view, err := lc.SetCriteria(ctx, criteriaFrom(filters))
	if err == nil && *page != 1 {
		view, err = lc.GoToPage(ctx, *page)
	}
	if err != nil {
		return err
	}
	a.printProducts(view)
	return nil
}

func (a *App) printProducts(view *listing.View) {
	if view.Count == 0 {
		fmt.Fprintln(a.out, "No hay productos que coincidan con los filtros")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tTIPO\tMARCA\tQTD\tPREÇO\tTOTAL\tVALIDADE\tSTATUS")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Type, r.Brand, r.Quantity, r.PriceText, r.TotalText, r.ExpirationText, r.StatusLabel)
	}
	_ = tw.Flush()
	fmt.Fprintf(a.out, "\nPágina %d de %d (%s productos)\n", view.Page, view.TotalPages, format.Number(view.Count))
}

func productsGet(ctx context.Context, a *App, args []string) error {
	id, err := parseID(args, "products get ID")
	if err != nil {
		return err
	}
	p, err := catalog.NewCatalogUseCase(a.api, a.log).Get(ctx, id)
	if err != nil {
		return err
	}
	a.printProduct(p)
	return nil
}

func (a *App) printProduct(p *dto.ProductResponse) {
	status := inventory.StatusOf(p.ExpirationDate, clock.Today(a.clock))
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%d\n", p.ID)
	fmt.Fprintf(tw, "Tipo\t%s\n", p.Type)
	fmt.Fprintf(tw, "Marca\t%s\n", p.Brand)
	fmt.Fprintf(tw, "Quantidade\t%s\n", format.Number(p.Quantity))
	fmt.Fprintf(tw, "Peso\t%s kg\n", p.Weight.String())
	fmt.Fprintf(tw, "Fornecedor\t%s\n", p.Supplier)
	fmt.Fprintf(tw, "Preço\t%s\n", format.BRL(p.Price))
	fmt.Fprintf(tw, "Data de compra\t%s\n", format.Date(p.PurchaseDate))
	fmt.Fprintf(tw, "Data de validade\t%s (%s)\n", format.Date(p.ExpirationDate), status.Label())
	if p.Notes != "" {
		fmt.Fprintf(tw, "Observações\t%s\n", p.Notes)
	}
	_ = tw.Flush()
}

func productsCreate(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("products create", "products create --tipo T --marca M --quantidade N --peso P --fornecedor F --preco X --data-compra D --data-validade D")
	pf := newProductFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	p, err := catalog.NewCatalogUseCase(a.api, a.log).Create(ctx, pf.form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Producto %d creado\n", p.ID)
	a.printProduct(p)
	return nil
}

func productsUpdate(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("products update", "products update ID [--campo valor ...]")
	pf := newProductFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := parseID(fs.Args(), "products update ID")
	if err != nil {
		return err
	}
	uc := catalog.NewCatalogUseCase(a.api, a.log)
	current, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := uc.Update(ctx, id, pf.overlay(catalog.FormFromProduct(*current)))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Producto %d actualizado\n", p.ID)
	a.printProduct(p)
	return nil
}

func productsDelete(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("products delete", "products delete ID [--yes]")
	yes := fs.BoolP("yes", "y", false, "no pedir confirmación")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := parseID(fs.Args(), "products delete ID")
	if err != nil {
		return err
	}

	// la confirmación muestra marca y tipo: se busca el producto antes
	p, err := catalog.NewCatalogUseCase(a.api, a.log).Get(ctx, id)
	if err != nil {
		return err
	}
	lc := a.newListing()
	deleted, _, err := lc.Delete(ctx, id, func(listing.ProductRow) bool {
		return *yes || a.confirm(fmt.Sprintf("¿Eliminar %s %s (id %d)?", p.Type, p.Brand, id))
	})
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "Cancelado")
		return nil
	}
	fmt.Fprintf(a.out, "Producto %d eliminado\n", id)
	return nil
}

// ── movements ───────────────────────────────────────────────────────────────

func runMovements(ctx context.Context, a *App, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.errOut, "Uso: stockctl movements list|create")
		return errUsage
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	uc := catalog.NewCatalogUseCase(a.api, a.log)
	switch args[0] {
	case "list":
		fs := a.newFlagSet("movements list", "movements list [--produto ID] [--page N]")
		product := fs.Int64("produto", 0, "solo los movimientos de este producto")
		page := fs.Int("page", 1, "página")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		out, err := uc.History(ctx, *product, *page)
		if err != nil {
			return err
		}
		a.printMovements(out)
		return nil

	case "create":
		fs := a.newFlagSet("movements create", "movements create --produto ID --tipo entrada|saida --motivo M --quantidade N")
		var form catalog.MovementForm
		fs.Int64Var(&form.ProductID, "produto", 0, "id del producto")
		fs.StringVar(&form.Type, "tipo", "", "entrada o saida")
		fs.StringVar(&form.Reason, "motivo", "", strings.ToLower(strings.Join(entity.MovementReasons, ", ")))
		fs.StringVar(&form.Quantity, "quantidade", "", "unidades")
		fs.StringVar(&form.UnitPrice, "preco-unitario", "", "precio unitario (opcional)")
		fs.StringVar(&form.Notes, "observacoes", "", "observaciones")
		if err := parse(fs, args[1:]); err != nil {
			return err
		}
		m, err := uc.RegisterMovement(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Movimiento %d registrado: %s de %d unidades del producto %d\n", m.ID, m.Type, m.Quantity, m.Product)
		return nil
	}
	fmt.Fprintf(a.errOut, "subcomando desconocido %q\n", args[0])
	return errUsage
}

func (a *App) printMovements(page *dto.MovementPage) {
	if page.Count == 0 {
		fmt.Fprintln(a.out, "Sin movimientos")
		return
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tFECHA\tPRODUCTO\tTIPO\tMOTIVO\tQTD\tPREÇO UNIT.")
	for _, m := range page.Results {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%d\t%s\n",
			m.ID, format.DateTime(m.Date), m.Product, m.Type, m.Reason, m.Quantity, format.BRL(m.UnitPrice))
	}
	_ = tw.Flush()
	fmt.Fprintf(a.out, "\n%s movimientos\n", format.Number(page.Count))
}

// ── import ──────────────────────────────────────────────────────────────────

func runImport(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("import", "import planilha.csv [--dry-run]")
	dryRun := fs.Bool("dry-run", false, "solo validar, sin crear productos")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := csvimport.Read(f)
	if err != nil {
		return err
	}
	for _, rej := range res.Rejected {
		fmt.Fprintf(a.errOut, "línea %d omitida: %s\n", rej.Line, domain.UserMessage(rej.Err))
	}
	if *dryRun {
		fmt.Fprintf(a.out, "%d productos válidos, %d filas con errores\n", len(res.Products), len(res.Rejected))
		return nil
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	created := 0
	for i, p := range res.Products {
		if _, err := a.api.CreateProduct(ctx, p); err != nil {
			// sesión o red: no tiene sentido seguir con las demás filas
			if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("importados %d de %d: %w", created, len(res.Products), err)
			}
			fmt.Fprintf(a.errOut, "producto %d (%s %s) rechazado: %s\n", i+1, p.Type, p.Brand, domain.UserMessage(err))
			continue
		}
		created++
	}
	fmt.Fprintf(a.out, "Importados %d productos (%d filas omitidas)\n", created, len(res.Products)-created+len(res.Rejected))
	return nil
}
