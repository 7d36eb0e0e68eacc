package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/stockctl/internal/application/analytics"
	"github.com/jhoicas/stockctl/internal/application/export"
	"github.com/jhoicas/stockctl/internal/infrastructure/pdf"
	"github.com/jhoicas/stockctl/internal/pkg/format"
)

// ── alerts ──────────────────────────────────────────────────────────────────

func runAlerts(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("alerts", "alerts [--days N] [--min-quantity N]")
	days := fs.Int("days", a.cfg.UI.ExpiringHorizon, "horizonte de vencimiento en días")
	minQty := fs.Int("min-quantity", a.cfg.UI.LowStockMin, "umbral de estoque bajo")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	alerts, err := analytics.NewAlertsUseCase(a.api, a.clock).Load(ctx, *days, *minQty)
	if err != nil {
		return err
	}
	a.printAlertSection(fmt.Sprintf("Vencen en los próximos %d días", *days), alerts.Expiring, true)
	a.printAlertSection("Vencidos", alerts.Expired, true)
	a.printAlertSection(fmt.Sprintf("Estoque baixo (hasta %d unidades)", *minQty), alerts.LowStock, false)
	return nil
}

func (a *App) printAlertSection(title string, items []analytics.AlertItem, withDays bool) {
	fmt.Fprintf(a.out, "%s (%d)\n", title, len(items))
	if len(items) == 0 {
		fmt.Fprintln(a.out, "  -")
		fmt.Fprintln(a.out)
		return
	}
	tw := a.table()
	for _, it := range items {
		extra := format.Number(it.Units) + " un."
		if withDays {
			extra = it.Label
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Brand, format.DatePtr(it.ExpirationDate), extra)
	}
	_ = tw.Flush()
	fmt.Fprintln(a.out)
}

// ── dashboard / report ──────────────────────────────────────────────────────

func (a *App) presenter() *analytics.DashboardPresenter {
	return analytics.NewDashboardPresenter(a.api, analytics.Options{
		HorizonDays: a.cfg.UI.ExpiringHorizon,
		TopBrands:   a.cfg.UI.TopBrands,
		Clock:       a.clock,
		Logger:      a.log,
	})
}

func runDashboard(ctx context.Context, a *App, args []string) error {
	if err := parse(a.newFlagSet("dashboard", "dashboard"), args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	view, err := a.presenter().Load(ctx)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintf(tw, "Productos\t%s\n", format.Number(view.TotalProducts))
	fmt.Fprintf(tw, "Unidades\t%s\n", format.Number(view.TotalUnits))
	fmt.Fprintf(tw, "Valor en estoque\t%s\n", view.TotalValueText)
	fmt.Fprintf(tw, "Vencidos\t%d\n", view.ExpiredCount)
	fmt.Fprintf(tw, "Próximos al vencimiento\t%d\n", view.NearCount)
	_ = tw.Flush()
	if len(view.Derived) > 0 {
		fmt.Fprintf(a.out, "(calculado localmente: %s)\n", strings.Join(view.Derived, ", "))
	}

	fmt.Fprintln(a.out, "\nMarcas con más productos")
	tw = a.table()
	for i, b := range view.TopBrands {
		fmt.Fprintf(tw, "  %d.\t%s\t%d\n", i+1, b.Brand, b.Count)
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, "\nProductos por tipo")
	tw = a.table()
	for _, t := range view.ProductsByType {
		fmt.Fprintf(tw, "  %s\t%d\n", t.Name, t.Value)
	}
	_ = tw.Flush()

	fmt.Fprintf(a.out, "\nVencen en %d días\n", view.HorizonDays)
	tw = a.table()
	for _, e := range view.Expiring {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Name, e.Brand, format.DatePtr(e.ExpirationDate), e.Label)
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, "\nÚltimos registrados")
	tw = a.table()
	for _, p := range view.Recent {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Name, p.Brand, format.BRL(p.Price), format.DatePtr(p.RegisteredAt))
	}
	return tw.Flush()
}

func runReport(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("report", "report [-o reporte.pdf]")
	output := fs.StringP("output", "o", "", "archivo de salida (por defecto en la carpeta de descargas)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	author := a.cfg.App.Name
	if user, err := a.store.User(ctx); err == nil && user != nil {
		author = user.DisplayName()
	}
	data, view, err := a.presenter().Report(ctx, pdf.NewMarotoReportGenerator(author))
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = filepath.Join(a.cfg.UI.ExportDir, fmt.Sprintf("relatorio_estoque_%s.pdf", view.Today))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("guardar reporte: %w", err)
	}
	fmt.Fprintf(a.out, "Reporte guardado en %s (%d bytes)\n", path, len(data))
	return nil
}

// ── export / backup / filters ───────────────────────────────────────────────

func (a *App) exporter(dir string) *export.Controller {
	if dir == "" {
		dir = a.cfg.UI.ExportDir
	}
	return export.NewController(a.api, dir, a.log)
}

func runExport(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("export", "export [--format csv|json|zip] [--no-expired] [--no-notes] [filtros]")
	fmtName := fs.StringP("format", "f", "csv", "csv, json o zip")
	dir := fs.String("dir", "", "carpeta de destino")
	noExpired := fs.Bool("no-expired", false, "excluir productos vencidos")
	noNotes := fs.Bool("no-notes", false, "excluir observaciones")
	filters := filterFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	ec := a.exporter(*dir)
	for k, v := range criteriaFrom(filters) {
		if err := ec.SetFilter(k, v); err != nil {
			return err
		}
	}
	ec.SetIncludeExpired(!*noExpired)
	ec.SetIncludeNotes(!*noNotes)

	res, err := ec.Export(ctx, strings.ToLower(*fmtName))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exportado %s (%d bytes) en %s\n", res.Filename, res.Size, res.Path)
	return nil
}

func runBackup(ctx context.Context, a *App, args []string) error {
	fs := a.newFlagSet("backup", "backup [--dir carpeta]")
	dir := fs.String("dir", "", "carpeta de destino")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	res, err := a.exporter(*dir).Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Backup guardado en %s (%d bytes)\n", res.Path, res.Size)
	return nil
}

func runFilters(ctx context.Context, a *App, args []string) error {
	if err := parse(a.newFlagSet("filters", "filters"), args); err != nil {
		return err
	}
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	meta, err := a.exporter("").Metadata(ctx)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintf(tw, "Tipos\t%s\n", joinOrDash(meta.Types))
	fmt.Fprintf(tw, "Marcas\t%s\n", joinOrDash(meta.Brands))
	fmt.Fprintf(tw, "Fornecedores\t%s\n", joinOrDash(meta.Suppliers))
	if meta.Stats != nil {
		fmt.Fprintf(tw, "Productos\t%d (vencidos %d, próximos %d)\n",
			meta.Stats.TotalProducts, meta.Stats.ExpiredProducts, meta.Stats.NearExpiry)
	}
	_ = tw.Flush()

	if len(meta.History) > 0 {
		fmt.Fprintln(a.out, "\nÚltimas exportaciones")
		tw = a.table()
		for _, h := range meta.History {
			fmt.Fprintf(tw, "  %s\t%s\t%d filas\t%s\n", format.DateTime(h.CreatedAt), h.Format, h.Rows, h.Filename)
		}
		return tw.Flush()
	}
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
