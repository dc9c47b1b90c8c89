package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/html"
	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/leafreport"
	"leafdesk/models"
)

// Now is the clock that decides which deliveries are today's.
var Now = time.Now

type fetched struct {
	suppliers    []models.Supplier
	suppliersErr error
	leaves       []models.GreenLeaf
	leavesErr    error
	factory      models.Factory
	factoryErr   error
}

// fetchAll loads the dashboard data concurrently. Each source fails on its
// own; a 401 from any of them cancels the rest and is returned.
func fetchAll(ctx context.Context, api *apiclient.Client, factoryID string) (fetched, error) {
	var out fetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.suppliers, out.suppliersErr = api.ListSuppliersByFactory(gctx, factoryID)
		return unauthorized(out.suppliersErr)
	})
	g.Go(func() error {
		out.leaves, out.leavesErr = api.ListGreenLeafByFactory(gctx, factoryID)
		return unauthorized(out.leavesErr)
	})
	g.Go(func() error {
		out.factory, out.factoryErr = api.GetFactory(gctx, factoryID)
		return unauthorized(out.factoryErr)
	})
	err := g.Wait()
	return out, err
}

func unauthorized(err error) error {
	if apiclient.IsUnauthorized(err) {
		return err
	}
	return nil
}

// DashboardQueryHandler renders the landing page tiles.
func DashboardQueryHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		factoryID := sessioncontext.FactoryID(ctx)
		sess, _ := sessioncontext.GetSessionFromContext(ctx)

		res, err := fetchAll(ctx, deps.API, factoryID)
		if ctx.Err() != nil {
			return
		}
		if err != nil && deps.HandleUnauthorized(w, r, err) {
			return
		}

		for name, ferr := range map[string]error{"suppliers": res.suppliersErr, "green-leaf": res.leavesErr, "factory": res.factoryErr} {
			if ferr != nil {
				slog.Error("dashboard source failed", slog.String("source", name), slog.Any("err", ferr))
			}
		}
		if res.factoryErr == nil {
			deps.Factories.Add(factoryID, res.factory)
		}

		loc := deps.Loc()
		today := leafreport.Today(Now(), loc)
		data := PageData{
			UserName: sess.User.UserName,
			Today:    today.From.Format("Monday, January 2, 2006"),
			Tiles:    buildTiles(res, today),
		}
		if res.factoryErr == nil {
			data.FactoryName = res.factory.Name
		}

		html.Render(w, r, http.StatusOK, DashboardPage(deps.Page(r, html.Page{Title: "Dashboard"}), data))
	}
}

func buildTiles(res fetched, today leafreport.Range) []Tile {
	supplierCount, activeCount := Unavailable, Unavailable
	if res.suppliersErr == nil {
		active := 0
		for _, s := range res.suppliers {
			if s.Active() {
				active++
			}
		}
		supplierCount = strconv.Itoa(len(res.suppliers))
		activeCount = strconv.Itoa(active)
	}

	deliveries, netQty := Unavailable, Unavailable
	if res.leavesErr == nil {
		todays := leafreport.Filter(res.leaves, today)
		deliveries = strconv.Itoa(len(todays))
		netQty = leafreport.NetTotal(todays).StringFixed(2)
	}

	return []Tile{
		{Label: "Suppliers", Value: supplierCount, Href: "/suppliers"},
		{Label: "Active suppliers", Value: activeCount, Href: "/suppliers"},
		{Label: "Today's deliveries", Value: deliveries, Href: "/green-leaf"},
		{Label: "Today's net quantity (Kg)", Value: netQty, Href: "/green-leaf"},
	}
}
