package greenleaf

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leafdesk/frontend/exports"
	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/html"
	"leafdesk/frontend/shared/workflow"
	"leafdesk/infrastructure/leafreport"
	"leafdesk/models"
)

const listPath = "/green-leaf"

// Now is the clock used for the default date range.
var Now = time.Now

func rangeFrom(q url.Values, loc *time.Location) leafreport.Range {
	return leafreport.ParseRange(q.Get("from"), q.Get("to"), Now(), loc)
}

func listState(q url.Values, rng leafreport.Range) workflow.ListState {
	st := workflow.ParseListState(q)
	st.Extra.Set("from", rng.FromDay())
	st.Extra.Set("to", rng.ToDay())
	return st
}

// GreenLeafQueryHandler renders the date-range report and the transaction
// dialog named in the query.
func GreenLeafQueryHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc := deps.Loc()
		factoryID := sessioncontext.FactoryID(ctx)
		rng := rangeFrom(r.URL.Query(), loc)
		st := listState(r.URL.Query(), rng)

		res := workflow.Load(ctx, "green-leaf", func(ctx context.Context) ([]models.GreenLeaf, error) {
			return deps.API.ListGreenLeafByFactory(ctx, factoryID)
		})
		if res.Cancelled() {
			return
		}
		if res.Failed() && deps.HandleUnauthorized(w, r, res.Err) {
			return
		}

		var notice html.Notice
		data := buildListData(leafreport.Filter(res.Items, rng), st, rng, loc)
		data.LoadFailed = res.Failed()
		if res.Failed() {
			notice = html.Notice{Level: html.LevelError, Message: msgListFail}
		}

		if st.Dialog.Is(workflow.DialogView) {
			g, err := deps.API.GetGreenLeaf(ctx, st.Dialog.ID)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if deps.HandleUnauthorized(w, r, err) {
					return
				}
				slog.Error("fetch green leaf failed", slog.String("tr_no", st.Dialog.ID), slog.Any("err", err))
				notice = html.Notice{Level: html.LevelError, Message: msgFetchFail}
			} else {
				data.Dialog = &DialogData{
					Title:    g.TrNo.String() + " - Leaf Stock Details",
					Complete: g.Completed(),
					Detail:   detailRows(g, loc),
					SlipURL:  slipURL(g.TrNo.String()),
					CloseURL: st.Closed().URL(listPath),
				}
			}
		}

		html.Render(w, r, http.StatusOK, GreenLeafPage(deps.Page(r, html.Page{Title: "Green Leaf", Notice: notice}), data))
	}
}

func slipURL(trNo string) string {
	return listPath + "/" + url.PathEscape(trNo) + "/slip.pdf"
}

func buildListData(filtered []models.GreenLeaf, st workflow.ListState, rng leafreport.Range, loc *time.Location) GreenLeafPageData {
	sorted := workflow.SortBy(filtered, st.Sort, st.Dir, sortableColumns)
	page := workflow.Paginate(sorted, st.Page, st.Size, workflow.DefaultPageSizes)
	st.Page = page.Number
	st.Size = page.Size

	rows := make([]Row, 0, len(page.Items))
	for _, g := range page.Items {
		id := g.TrNo.String()
		rows = append(rows, Row{
			TrNo:        id,
			Date:        formatWhen(g.Date, loc),
			Supplier:    g.Supplier.String(),
			NoofSacks:   g.NoofSacks.String(),
			TotalKg:     leafreport.Fixed2(g.TotalKg),
			SacksWeight: leafreport.Fixed2(g.SacksWeight),
			Water:       leafreport.Fixed2(g.Water),
			NetQty:      leafreport.Fixed2(g.NetQty),
			Complete:    g.Completed(),
			ViewURL:     st.WithDialog(workflow.View(id)).URL(listPath),
			SlipURL:     slipURL(id),
		})
	}

	rangeQuery := url.Values{"from": {rng.FromDay()}, "to": {rng.ToDay()}}
	data := GreenLeafPageData{
		From:       rng.FromDay(),
		To:         rng.ToDay(),
		Rows:       rows,
		Filtered:   len(filtered),
		NetTotal:   leafreport.NetTotal(filtered).StringFixed(2),
		ExportURL:  listPath + "/export.xlsx?" + rangeQuery.Encode(),
		HistoryURL: "/exports",
		IDHeader: SortLink{
			Label:  "Id",
			URL:    st.Closed().ToggleSort("id").URL(listPath),
			Active: st.Sort == "id",
			Dir:    st.Dir,
		},
	}
	for n := 1; n <= page.Pages; n++ {
		data.Pages = append(data.Pages, PageLink{Label: strconv.Itoa(n), URL: st.Closed().WithPage(n).URL(listPath), Current: n == page.Number})
	}
	for _, size := range page.Sizes {
		data.SizeLinks = append(data.SizeLinks, PageLink{Label: strconv.Itoa(size), URL: st.Closed().WithSize(size).URL(listPath), Current: size == page.Size})
	}
	return data
}

// ExportGreenLeafHandler downloads the filtered transactions as a workbook.
func ExportGreenLeafHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc := deps.Loc()
		factoryID := sessioncontext.FactoryID(ctx)
		rng := rangeFrom(r.URL.Query(), loc)
		back := listPath + "?" + url.Values{"from": {rng.FromDay()}, "to": {rng.ToDay()}}.Encode()

		items, err := deps.API.ListGreenLeafByFactory(ctx, factoryID)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			slog.Error("load green leaf for export failed", slog.String("factory_id", factoryID), slog.Any("err", err))
			html.RedirectWithNotice(w, r, back, html.Notice{Level: html.LevelError, Message: msgListFail})
			return
		}

		filtered := leafreport.Filter(items, rng)
		if len(filtered) == 0 {
			html.RedirectWithNotice(w, r, back, html.Notice{Level: html.LevelWarning, Message: msgNoExport})
			return
		}

		var buf bytes.Buffer
		if err := leafreport.WriteXLSX(&buf, filtered); err != nil {
			slog.Error("build green leaf workbook failed", slog.Any("err", err))
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+leafreport.FileName)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)

		sess, _ := sessioncontext.GetSessionFromContext(ctx)
		run := models.ExportRun{
			UserID:     sess.User.UserID.String(),
			FactoryID:  factoryID,
			ExportType: exports.TypeGreenLeafXLSX,
			FromDate:   rng.FromDay(),
			ToDate:     rng.ToDay(),
			RowCount:   len(filtered),
			FileName:   leafreport.FileName,
		}
		if err := exports.RecordExportRun(ctx, deps.DB, &run); err != nil {
			slog.Error("record export run failed", slog.String("type", run.ExportType), slog.Any("err", err))
		}
	}
}

// DeliverySlipHandler renders the printable slip of one transaction.
func DeliverySlipHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		g, err := deps.API.GetGreenLeaf(ctx, id)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			slog.Error("fetch green leaf for slip failed", slog.String("tr_no", id), slog.Any("err", err))
			html.RedirectWithNotice(w, r, listPath, html.Notice{Level: html.LevelError, Message: msgFetchFail})
			return
		}

		factoryName := ""
		if f, ok := deps.Factories.Get(sessioncontext.FactoryID(ctx)); ok {
			factoryName = f.Name
		}
		pdfBytes, err := renderDeliverySlipPDF(SlipData{
			FactoryName: factoryName,
			Leaf:        g,
			Location:    deps.Loc(),
		}, Now())
		if err != nil {
			slog.Error("render delivery slip failed", slog.String("tr_no", id), slog.Any("err", err))
			http.Error(w, msgSlipFail, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=green-leaf-"+slipFileID(g.TrNo.String())+".pdf")
		_, _ = w.Write(pdfBytes)
	}
}
