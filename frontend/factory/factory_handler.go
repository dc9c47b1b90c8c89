package factory

import (
	"log/slog"
	"net/http"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/form"
	"leafdesk/frontend/shared/html"
	"leafdesk/infrastructure/audit"
	"leafdesk/models"
)

const pagePath = "/factory"

// FactoryQueryHandler shows the profile of the signed-in user's factory.
func FactoryQueryHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		factoryID := sessioncontext.FactoryID(ctx)

		f, err := deps.API.GetFactory(ctx, factoryID)
		if ctx.Err() != nil {
			return
		}
		var notice html.Notice
		data := FactoryPageData{}
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			slog.Error("fetch factory failed", slog.String("factory_id", factoryID), slog.Any("err", err))
			notice = html.Notice{Level: html.LevelError, Message: msgFetchFail}
			data.Draft = draftFromFactory(models.Factory{})
			data.Unavailable = true
		} else {
			deps.Factories.Add(factoryID, f)
			data.Draft = draftFromFactory(f)
		}

		html.Render(w, r, http.StatusOK, FactoryPage(deps.Page(r, html.Page{Title: "Factory", Notice: notice}), data))
	}
}

// UpdateFactoryCommandHandler validates the profile form and puts it over the
// current remote record.
func UpdateFactoryCommandHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		factoryID := sessioncontext.FactoryID(ctx)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		// Start from the last profile shown so a rejected digit-only field
		// keeps its committed value.
		committed, _ := deps.Factories.Get(factoryID)
		draft := draftFromFactory(committed)
		draft.Apply(r.PostForm)
		validate(draft)
		if !draft.Valid() {
			page := html.Page{Title: "Factory", Alert: form.RequiredSummary}
			html.Render(w, r, http.StatusUnprocessableEntity, FactoryPage(deps.Page(r, page), FactoryPageData{Draft: draft}))
			return
		}

		current, err := deps.API.GetFactory(ctx, factoryID)
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			slog.Error("fetch factory before update failed", slog.String("factory_id", factoryID), slog.Any("err", err))
			renderFailure(w, r, deps, draft)
			return
		}

		updated := applyDraft(current, draft)
		if err := deps.API.UpdateFactory(ctx, factoryID, updated); err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			slog.Error("update factory failed", slog.String("factory_id", factoryID), slog.Any("err", err))
			renderFailure(w, r, deps, draft)
			return
		}

		deps.Factories.Add(factoryID, updated)
		sess, _ := sessioncontext.GetSessionFromContext(ctx)
		if err := deps.Audit.Record(ctx, sess.User, audit.ActionFactoryUpdate, "factory", factoryID, current, updated); err != nil {
			slog.Error("audit write failed", slog.String("action", audit.ActionFactoryUpdate), slog.Any("err", err))
		}
		html.RedirectWithNotice(w, r, pagePath, html.Notice{Level: html.LevelSuccess, Message: msgUpdated})
	}
}

func renderFailure(w http.ResponseWriter, r *http.Request, deps *app.Deps, draft *form.Draft) {
	page := html.Page{Title: "Factory", Notice: html.Notice{Level: html.LevelError, Message: msgEditFail}}
	html.Render(w, r, http.StatusBadGateway, FactoryPage(deps.Page(r, page), FactoryPageData{Draft: draft}))
}
