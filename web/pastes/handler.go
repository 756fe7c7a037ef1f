package pastes

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"katb.in/katbin"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/markdown"
	"katb.in/katbin/internal/rayman"
	"katb.in/katbin/web"
)

var customIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Custom ids that would be shadowed by another route.
var reservedIDs = map[string]bool{
	"pastes": true,
	"users":  true,
	"v":      true,
	"raw":    true,
	"md":     true,
	"edit":   true,
}

type Handler struct {
	PasteService katbin.PasteService
	LoginService auth.LoginService
	Sessions     auth.SessionService
	Renderer     web.Renderer

	MaxPasteSize katbin.ByteSize
}

func (h *Handler) maxSize() katbin.ByteSize {
	if h.MaxPasteSize == 0 {
		return katbin.DefaultPasteSize
	}
	return h.MaxPasteSize
}

// validateContent returns a user-facing problem with content, or nil.
func (h *Handler) validateContent(content string) *web.UserError {
	if strings.TrimSpace(content) == "" {
		return &web.UserError{StatusCode: http.StatusBadRequest, Message: "Paste content can't be empty."}
	}
	if katbin.ByteSize(len(content)) > h.maxSize() {
		return &web.UserError{StatusCode: http.StatusRequestEntityTooLarge, Message: "Pastes are limited to " + h.maxSize().String() + "."}
	}
	return nil
}

func validateCustomID(id string) *web.UserError {
	if !customIDPattern.MatchString(id) {
		return &web.UserError{StatusCode: http.StatusBadRequest, Message: "Custom URLs may only use letters, digits, dashes and underscores."}
	}
	if reservedIDs[strings.ToLower(id)] {
		return &web.UserError{StatusCode: http.StatusConflict, Message: katbin.ErrDuplicateID.Error()}
	}
	return nil
}

func (h *Handler) warn(r *http.Request, message string) {
	web.Flash(r, h.Sessions, auth.FlashWarning, message)
}

// viewURL is where a paste is shown after it is saved. URL pastes go to the
// explicit view so the author sees the page instead of the redirect.
func viewURL(p *katbin.Paste) string {
	if p.IsURL {
		return "/v/" + p.ID.String()
	}
	return "/" + p.ID.String()
}

func (h *Handler) getPasteFromRequest(r *http.Request) (*katbin.Paste, error) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		return nil, katbin.ErrNotFound
	}
	return h.PasteService.GetPaste(r.Context(), katbin.PasteID(id))
}

func (h *Handler) handleShowNew(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, &PasteForm{
		CanChooseID: auth.MayChooseID(h.LoginService.GetLoggedInUser(r)),
		MaxSize:     h.maxSize(),
	})
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	user := h.LoginService.GetLoggedInUser(r)
	form := &PasteForm{
		Content:     r.FormValue("content"),
		CustomURL:   strings.TrimSpace(r.FormValue("custom_url")),
		CanChooseID: auth.MayChooseID(user),
		MaxSize:     h.maxSize(),
	}

	reject := func(uerr *web.UserError) {
		h.warn(r, uerr.Message)
		h.Renderer.Render(w, r, uerr.StatusCode, form)
	}

	if uerr := h.validateContent(form.Content); uerr != nil {
		reject(uerr)
		return
	}
	customID := ""
	if form.CanChooseID && form.CustomURL != "" {
		if uerr := validateCustomID(form.CustomURL); uerr != nil {
			reject(uerr)
			return
		}
		customID = form.CustomURL
	}

	p, err := h.PasteService.CreatePaste(r.Context(), form.Content, customID, user)
	if errors.Is(err, katbin.ErrDuplicateID) {
		reject(&web.UserError{StatusCode: http.StatusConflict, Message: katbin.ErrDuplicateID.Error()})
		return
	}
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	web.Redirect(w, r, h.Sessions, viewURL(p))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, explicitView bool) {
	p, err := h.getPasteFromRequest(r)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	if auth.DecideView(p, explicitView) == auth.ViewRedirect {
		http.Redirect(w, r, strings.TrimSpace(p.Content), http.StatusFound)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, &PasteResponse{
		Paste:    p,
		Editable: auth.CanEdit(h.LoginService.GetLoggedInUser(r), p),
	})
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, false)
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, true)
}

func (h *Handler) handleRaw(w http.ResponseWriter, r *http.Request) {
	p, err := h.getPasteFromRequest(r)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/plain; charset=utf-8")
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Content-Security-Policy", "default-src 'none'; sandbox")
	hdr.Set("X-Frame-Options", "DENY")
	hdr.Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(p.Content))
}

func (h *Handler) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	p, err := h.getPasteFromRequest(r)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, &MarkdownResponse{
		PasteResponse: PasteResponse{
			Paste:    p,
			Editable: auth.CanEdit(h.LoginService.GetLoggedInUser(r), p),
		},
		HTML: markdown.Render(p.Content),
	})
}

// editablePaste loads the paste named by the request if the requester may
// edit it. Otherwise it deflects to the paste's view page and returns nil.
func (h *Handler) editablePaste(w http.ResponseWriter, r *http.Request) *katbin.Paste {
	id := mux.Vars(r)["id"]
	p, err := h.getPasteFromRequest(r)
	if err != nil && !errors.Is(err, katbin.ErrNotFound) {
		h.Renderer.Error(w, r, err)
		return nil
	}
	if err != nil || !auth.CanEdit(h.LoginService.GetLoggedInUser(r), p) {
		rayman.RequestLogger(r).WithField("paste", id).Debug("edit deflected")
		web.Redirect(w, r, h.Sessions, "/"+id)
		return nil
	}
	return p
}

func (h *Handler) handleShowEditor(w http.ResponseWriter, r *http.Request) {
	p := h.editablePaste(w, r)
	if p == nil {
		return
	}
	h.Renderer.Render(w, r, http.StatusOK, &PasteEditResponse{
		PasteResponse: PasteResponse{Paste: p, Editable: true},
		Content:       p.Content,
		MaxSize:       h.maxSize(),
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p := h.editablePaste(w, r)
	if p == nil {
		return
	}

	content := r.FormValue("content")
	if uerr := h.validateContent(content); uerr != nil {
		h.warn(r, uerr.Message)
		h.Renderer.Render(w, r, uerr.StatusCode, &PasteEditResponse{
			PasteResponse: PasteResponse{Paste: p, Editable: true},
			Content:       content,
			MaxSize:       h.maxSize(),
		})
		return
	}

	updated, err := h.PasteService.UpdatePasteContent(r.Context(), p.ID, content)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	web.Flash(r, h.Sessions, auth.FlashInfo, "Paste updated.")
	web.Redirect(w, r, h.Sessions, viewURL(updated))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user := h.LoginService.GetLoggedInUser(r)
	if user == nil {
		h.warn(r, "Log in to see your pastes.")
		web.Redirect(w, r, h.Sessions, "/users/login")
		return
	}

	pastes, err := h.PasteService.GetPastesOwnedBy(r.Context(), user.ID)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, r, http.StatusOK, &PasteListResponse{Pastes: pastes})
}

func (h *Handler) BindRoutes(router *mux.Router) error {
	// Methods() does not open a new handling context,
	// so we can't chain path.methods->a, .methods->b
	router.Path("/").
		Methods("POST").HandlerFunc(h.handleNew)

	router.Path("/").
		Methods("GET").HandlerFunc(h.handleShowNew)

	// Registered ahead of /{id}, which would otherwise claim it.
	router.Path("/pastes").
		Methods("GET").HandlerFunc(h.handleList)

	router.Path("/v/{id}").
		Methods("GET").HandlerFunc(h.handleView)

	router.Path("/raw/{id}").
		Methods("GET").HandlerFunc(h.handleRaw)

	router.Path("/md/{id}").
		Methods("GET").HandlerFunc(h.handleMarkdown)

	router.Path("/edit/{id}").
		Methods("POST").HandlerFunc(h.handleUpdate)

	router.Path("/edit/{id}").
		Methods("GET").HandlerFunc(h.handleShowEditor)

	router.Path("/{id}").
		Methods("GET").HandlerFunc(h.handleShow)

	return nil
}

func NewHandler(ps katbin.PasteService, login auth.LoginService, sessions auth.SessionService, r web.Renderer) *Handler {
	return &Handler{
		PasteService: ps,
		LoginService: login,
		Sessions:     sessions,
		Renderer:     r,
	}
}
