package exports

import (
	"log/slog"
	"net/http"
	"net/url"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/html"
)

// ExportHistoryQueryHandler lists the factory's recent downloads.
func ExportHistoryQueryHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		factoryID := sessioncontext.FactoryID(ctx)

		var notice html.Notice
		data := PageData{}
		runs, err := ListExportRuns(ctx, deps.DB, factoryID, historyLimit)
		if err != nil {
			slog.Error("list export runs failed", slog.String("factory_id", factoryID), slog.Any("err", err))
			notice = html.Notice{Level: html.LevelError, Message: "Failed to load export history."}
			data.LoadFailed = true
		}
		loc := deps.Loc()
		for _, run := range runs {
			row := RunRow{
				CreatedAt: run.CreatedAt.In(loc).Format("02/01/2006 15:04"),
				Type:      typeLabel(run.ExportType),
				From:      run.FromDate,
				To:        run.ToDate,
				RowCount:  run.RowCount,
				FileName:  run.FileName,
			}
			if run.ExportType == TypeGreenLeafXLSX {
				row.AgainURL = "/green-leaf/export.xlsx?" + url.Values{"from": {run.FromDate}, "to": {run.ToDate}}.Encode()
			}
			data.Runs = append(data.Runs, row)
		}

		html.Render(w, r, http.StatusOK, ExportsPage(deps.Page(r, html.Page{Title: "Export history", Notice: notice}), data))
	}
}
