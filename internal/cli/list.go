package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/listquery"
	"github.com/invorya/libreria-client/internal/infrastructure/api"
)

var (
	listPage     int
	listPageSize int
	listSort     string
	listDesc     bool
	listSearch   string
	listScope    string
	listGenre    string
)

// printer formatea números con separador de miles para la salida de consola.
var printer = message.NewPrinter(language.Spanish)

var listCmd = &cobra.Command{
	Use:   "list <books|purchases|sales|buybacks|vendors|genres|users>",
	Short: "Lista una entidad del backend con orden, búsqueda y paginación",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		switch args[0] {
		case "books":
			return listBooks(ctx)
		case "purchases":
			return listPurchaseOrders(ctx)
		case "sales":
			return listSalesReconciliations(ctx)
		case "buybacks":
			return listBuybacks(ctx)
		case "vendors":
			return listVendors(ctx)
		case "genres":
			return listGenres(ctx)
		case "users":
			return listUsers(ctx)
		default:
			return fmt.Errorf("entidad desconocida: %s", args[0])
		}
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "página (base 0)")
	listCmd.Flags().IntVar(&listPageSize, "page-size", listquery.DefaultPageSize, "filas por página")
	listCmd.Flags().StringVar(&listSort, "sort", "", "campo de orden (nombre interno, ej. retailPrice)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "orden descendente")
	listCmd.Flags().StringVar(&listSearch, "search", "", "búsqueda de texto libre")
	listCmd.Flags().StringVar(&listScope, "scope", "title", "ámbito de búsqueda en libros (title|publisher|author|isbn13)")
	listCmd.Flags().StringVar(&listGenre, "genre", "", "filtro por género (solo libros)")
	rootCmd.AddCommand(listCmd)
}

// drive aplica el estado pedido al controlador en el mismo orden en que lo
// haría un usuario: tamaño de página, filtros, orden y por último la página.
func drive[T any](ctx context.Context, querier listquery.Querier[T], fields listquery.SortFieldMap, scopes []listquery.SearchScope, extra map[string]string) (*listquery.Controller[T], error) {
	ctl := listquery.NewController(querier, fields, scopes, log)
	if listPageSize != listquery.DefaultPageSize {
		if err := ctl.SetPageSize(ctx, listPageSize); err != nil {
			return nil, err
		}
	}
	for field, value := range extra {
		if value == "" {
			continue
		}
		if err := ctl.SetFilter(ctx, field, value); err != nil {
			return nil, err
		}
	}
	if listSort != "" {
		order := listquery.SortAscending
		if listDesc {
			order = listquery.SortDescending
		}
		if err := ctl.SetSort(ctx, listSort, order); err != nil {
			return nil, err
		}
	}
	if err := ctl.SetPage(ctx, listPage); err != nil {
		return nil, err
	}
	return ctl, nil
}

func pageFooter(count int, st listquery.State) {
	printer.Printf("— %d en total, página %d (×%d)\n", count, st.Page+1, st.PageSize)
}

func listBooks(ctx context.Context) error {
	extra := map[string]string{"genre": listGenre}
	if listSearch != "" {
		scope := map[string]string{"title": "title", "publisher": "publisher", "author": "author", "isbn13": "isbn13"}[listScope]
		if scope == "" {
			return fmt.Errorf("ámbito de búsqueda desconocido: %s", listScope)
		}
		extra[scope] = listSearch
	}
	ctl, err := drive(ctx, api.NewBookList(client), dto.BookSortFields(), dto.BookSearchScopes(), extra)
	if err != nil {
		return err
	}
	for _, b := range ctl.Rows() {
		printer.Printf("%-6d %-40.40s %-24.24s %s  $%s  stock %d\n",
			b.ID, b.Title, b.Author, b.ISBN13, b.RetailPrice.StringFixed(2), b.Stock)
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listPurchaseOrders(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewPurchaseOrderList(client), dto.PurchaseOrderSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, po := range ctl.Rows() {
		printer.Printf("%-6s %s  %-28.28s %4d libros (%d únicos)  $%s\n",
			po.ID, po.Date.Format(dto.DateLayout), po.VendorName, po.TotalBooks, po.UniqueBooks, po.TotalCost.StringFixed(2))
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listSalesReconciliations(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewSalesReconciliationList(client), dto.SalesReconciliationSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, sr := range ctl.Rows() {
		printer.Printf("%-6s %s  %4d libros (%d únicos)  $%s\n",
			sr.ID, sr.Date.Format(dto.DateLayout), sr.TotalBooks, sr.UniqueBooks, sr.TotalRevenue.StringFixed(2))
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listBuybacks(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewBuybackList(client), dto.BuybackSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, bb := range ctl.Rows() {
		printer.Printf("%-6s %s  %-28.28s %4d libros (%d únicos)  $%s\n",
			bb.ID, bb.Date.Format(dto.DateLayout), bb.VendorName, bb.TotalBooks, bb.UniqueBooks, bb.TotalRevenue.StringFixed(2))
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listVendors(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewVendorList(client), dto.VendorSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, v := range ctl.Rows() {
		printer.Printf("%-6d %-32.32s %3d órdenes  tasa recompra %s%%\n",
			v.ID, v.Name, v.NumPurchaseOrders, v.BuybackRate.String())
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listGenres(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewGenreList(client), dto.GenreSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, g := range ctl.Rows() {
		printer.Printf("%-6d %-32.32s %d libros\n", g.ID, g.Name, g.BookCount)
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}

func listUsers(ctx context.Context) error {
	ctl, err := drive(ctx, api.NewUserList(client), dto.UserSortFields(), nil, nil)
	if err != nil {
		return err
	}
	for _, u := range ctl.Rows() {
		admin := ""
		if u.IsAdmin {
			admin = " [admin]"
		}
		printer.Printf("%-6d %s%s\n", u.ID, u.UserName, admin)
	}
	pageFooter(ctl.Count(), ctl.State())
	return nil
}
