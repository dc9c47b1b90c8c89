package suppliers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leafdesk/frontend/shared/app"
	sessioncontext "leafdesk/frontend/shared/context"
	"leafdesk/frontend/shared/form"
	"leafdesk/frontend/shared/html"
	"leafdesk/frontend/shared/workflow"
	"leafdesk/infrastructure/audit"
	"leafdesk/models"
)

const listPath = "/suppliers"

// SuppliersQueryHandler renders the supplier list and the dialog named in the query.
func SuppliersQueryHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		factoryID := sessioncontext.FactoryID(ctx)
		st := workflow.ParseListState(r.URL.Query())

		res := workflow.Load(ctx, "suppliers", func(ctx context.Context) ([]models.Supplier, error) {
			return deps.API.ListSuppliersByFactory(ctx, factoryID)
		})
		if res.Cancelled() {
			return
		}
		if res.Failed() && deps.HandleUnauthorized(w, r, res.Err) {
			return
		}

		var notice html.Notice
		data := buildListData(res.Items, st)
		data.LoadFailed = res.Failed()
		if res.Failed() {
			notice = html.Notice{Level: html.LevelError, Message: msgListFail}
		}

		dialog, failure := openDialog(ctx, deps, st, sessioncontext.FactoryRef(ctx))
		if ctx.Err() != nil {
			return
		}
		if failure.err != nil {
			if deps.HandleUnauthorized(w, r, failure.err) {
				return
			}
			notice = html.Notice{Level: html.LevelError, Message: failure.msg}
		}
		data.Dialog = dialog

		html.Render(w, r, http.StatusOK, SuppliersPage(deps.Page(r, html.Page{Title: "Suppliers", Notice: notice}), data))
	}
}

type dialogFailure struct {
	msg string
	err error
}

// openDialog fetches what the requested dialog needs. A failed fetch closes
// the dialog and reports the toast to show.
func openDialog(ctx context.Context, deps *app.Deps, st workflow.ListState, factory models.ID) (*DialogData, dialogFailure) {
	closeURL := st.Closed().URL(listPath)
	switch st.Dialog.Kind {
	case workflow.DialogCreate:
		return createDialog(draftFromSupplier(newSupplier(factory)), closeURL), dialogFailure{}
	case workflow.DialogView, workflow.DialogEdit:
		s, err := deps.API.GetSupplier(ctx, st.Dialog.ID)
		if err != nil {
			return nil, dialogFailure{msg: msgFetchFail, err: err}
		}
		if st.Dialog.Is(workflow.DialogView) {
			return viewDialog(s, closeURL), dialogFailure{}
		}
		return editDialog(st.Dialog.ID, draftFromSupplier(s), closeURL), dialogFailure{}
	}
	return nil, dialogFailure{}
}

func createDialog(d *form.Draft, closeURL string) *DialogData {
	return &DialogData{Kind: "create", Title: "Add Supplier", Action: listPath, Draft: d, CloseURL: closeURL}
}

func editDialog(id string, d *form.Draft, closeURL string) *DialogData {
	return &DialogData{Kind: "edit", Title: "Edit Supplier", Action: listPath + "/" + id, Draft: d, CloseURL: closeURL}
}

func viewDialog(s models.Supplier, closeURL string) *DialogData {
	return &DialogData{
		Kind:     "view",
		Title:    s.SupCode + " - Supplier Details",
		Detail:   detailRows(s),
		Inactive: s.InActive != nil && *s.InActive,
		CloseURL: closeURL,
	}
}

func buildListData(items []models.Supplier, st workflow.ListState) SuppliersPageData {
	filtered := workflow.Filter(items, st.Query, searchFields)
	sorted := workflow.SortBy(filtered, st.Sort, st.Dir, sortableColumns)
	page := workflow.Paginate(sorted, st.Page, st.Size, workflow.DefaultPageSizes)
	st.Page = page.Number
	st.Size = page.Size

	rows := make([]Row, 0, len(page.Items))
	for _, s := range page.Items {
		id := s.SupID.String()
		rows = append(rows, Row{
			Supplier: s,
			ViewURL:  st.WithDialog(workflow.View(id)).URL(listPath),
			EditURL:  st.WithDialog(workflow.Edit(id)).URL(listPath),
		})
	}

	data := SuppliersPageData{
		Query:     st.Query,
		Rows:      rows,
		Total:     len(items),
		Filtered:  len(filtered),
		CreateURL: st.WithDialog(workflow.Create()).URL(listPath),
	}
	for _, h := range []struct{ label, column string }{{"Code", "code"}, {"Name", "name"}, {"Company", "company"}} {
		data.Headers = append(data.Headers, SortLink{
			Label:  h.label,
			URL:    st.Closed().ToggleSort(h.column).URL(listPath),
			Active: st.Sort == h.column,
			Dir:    st.Dir,
		})
	}
	for n := 1; n <= page.Pages; n++ {
		data.Pages = append(data.Pages, PageLink{Label: strconv.Itoa(n), URL: st.Closed().WithPage(n).URL(listPath), Current: n == page.Number})
	}
	for _, size := range page.Sizes {
		data.SizeLinks = append(data.SizeLinks, PageLink{Label: strconv.Itoa(size), URL: st.Closed().WithSize(size).URL(listPath), Current: size == page.Size})
	}
	return data
}

// CreateSupplierCommandHandler validates the create dialog and posts the supplier.
func CreateSupplierCommandHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		base := newSupplier(sessioncontext.FactoryRef(ctx))
		draft := draftFromSupplier(base)
		draft.Apply(r.PostForm)
		validate(draft)
		if !draft.Valid() {
			renderDialogOnly(w, r, deps, http.StatusUnprocessableEntity, createDialog(draft, listPath), html.Page{Alert: form.RequiredSummary})
			return
		}

		supplier := applyDraft(base, draft)
		created, err := deps.API.CreateSupplier(ctx, supplier)
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			renderDialogOnly(w, r, deps, http.StatusBadGateway, createDialog(draft, listPath), html.Page{Notice: html.Notice{Level: html.LevelError, Message: msgCreateFail}})
			return
		}

		entityID := created.SupID.String()
		if entityID == "" {
			entityID = created.SupCode
		}
		recordAudit(ctx, deps, audit.ActionSupplierCreate, entityID, nil, created)
		html.RedirectWithNotice(w, r, listPath, html.Notice{Level: html.LevelSuccess, Message: msgCreated})
	}
}

// UpdateSupplierCommandHandler overlays the edit dialog on the current record and puts it.
func UpdateSupplierCommandHandler(deps *app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "invalid supplier id", http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		current, err := deps.API.GetSupplier(ctx, id)
		if err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			html.RedirectWithNotice(w, r, listPath, html.Notice{Level: html.LevelError, Message: msgFetchFail})
			return
		}

		draft := draftFromSupplier(current)
		draft.Apply(r.PostForm)
		validate(draft)
		if !draft.Valid() {
			renderDialogOnly(w, r, deps, http.StatusUnprocessableEntity, editDialog(id, draft, listPath), html.Page{Alert: form.RequiredSummary})
			return
		}

		updated := applyDraft(current, draft)
		if err := deps.API.UpdateSupplier(ctx, id, updated); err != nil {
			if deps.HandleUnauthorized(w, r, err) {
				return
			}
			renderDialogOnly(w, r, deps, http.StatusBadGateway, editDialog(id, draft, listPath), html.Page{Notice: html.Notice{Level: html.LevelError, Message: msgEditFail}})
			return
		}

		recordAudit(ctx, deps, audit.ActionSupplierUpdate, id, current, updated)
		html.RedirectWithNotice(w, r, listPath, html.Notice{Level: html.LevelSuccess, Message: msgEdited})
	}
}

func renderDialogOnly(w http.ResponseWriter, r *http.Request, deps *app.Deps, status int, dialog *DialogData, page html.Page) {
	page.Title = "Suppliers"
	data := SuppliersPageData{Dialog: dialog, ListHidden: true}
	html.Render(w, r, status, SuppliersPage(deps.Page(r, page), data))
}

// recordAudit logs but does not fail the request: the remote write already happened.
func recordAudit(ctx context.Context, deps *app.Deps, action, entityID string, before, after any) {
	sess, _ := sessioncontext.GetSessionFromContext(ctx)
	if err := deps.Audit.Record(ctx, sess.User, action, "supplier", entityID, before, after); err != nil {
		slog.Error("audit write failed", slog.String("action", action), slog.String("entity_id", entityID), slog.Any("err", err))
	}
}
