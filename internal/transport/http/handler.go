package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/labdesk/workbench/internal/domain"
	"github.com/labdesk/workbench/internal/service"
	httpmw "github.com/labdesk/workbench/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const maxBodyBytes = 1 << 20

type MemberService interface {
	Create(ctx context.Context, name string, group domain.ResearchGroup) (*domain.Member, error)
	Get(ctx context.Context, id int64) (*domain.Member, error)
	ListActive(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, id int64, p service.MemberPatch) (*domain.Member, error)
	Deactivate(ctx context.Context, id int64) error
}

type RouletteService interface {
	Draw(ctx context.Context, participantIDs, presenterIDs []int64) (*service.Draw, error)
}

type MemoService interface {
	Create(ctx context.Context, ownerID int64, title, body string) (*domain.Memo, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.Memo, error)
	List(ctx context.Context, ownerID int64, limit int, cursor string) ([]domain.Memo, string, error)
	Update(ctx context.Context, ownerID, id int64, title, body string) (*domain.Memo, error)
	Delete(ctx context.Context, ownerID, id int64) error
	ExportOne(ctx context.Context, ownerID, id int64) (*service.Export, error)
	ExportAll(ctx context.Context, ownerID int64) (*service.Export, error)
}

type Handler struct {
	memberSvc   MemberService
	rouletteSvc RouletteService
	memoSvc     MemoService
	validate    *validator.Validate
}

func NewHandler(member MemberService, roulette RouletteService, memo MemoService) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		memberSvc:   member,
		rouletteSvc: roulette,
		memoSvc:     memo,
		validate:    v,
	}
}

// decode reads a JSON body and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalidInput("invalid json: %v", err)
	}
	return h.validate.Struct(dst)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidInput("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// --- members ---

// GET /members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberSvc.ListActive(r.Context())
	if err != nil {
		fail(w, r, "ListMembers", err)
		return
	}
	ok(w, http.StatusOK, MembersListResponse{Items: lo.Map(members, func(m domain.Member, _ int) MemberItem {
		return toMemberItem(m)
	})})
}

// POST /members
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := h.decode(r, &req); err != nil {
		fail(w, r, "CreateMember", err)
		return
	}
	m, err := h.memberSvc.Create(r.Context(), req.Name, domain.ResearchGroup(req.ResearchGroup))
	if err != nil {
		fail(w, r, "CreateMember", err)
		return
	}
	ok(w, http.StatusCreated, toMemberItem(*m))
}

// GET /members/{id}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "GetMember", err)
		return
	}
	m, err := h.memberSvc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, "GetMember", err)
		return
	}
	ok(w, http.StatusOK, toMemberItem(*m))
}

// PATCH /members/{id}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "UpdateMember", err)
		return
	}
	var req UpdateMemberRequest
	if err := h.decode(r, &req); err != nil {
		fail(w, r, "UpdateMember", err)
		return
	}

	patch := service.MemberPatch{Name: req.Name, IsActive: req.IsActive}
	if req.ResearchGroup != nil {
		g := domain.ResearchGroup(*req.ResearchGroup)
		patch.ResearchGroup = &g
	}
	m, err := h.memberSvc.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, "UpdateMember", err)
		return
	}
	ok(w, http.StatusOK, toMemberItem(*m))
}

// DELETE /members/{id}: deactivates, the record stays.
func (h *Handler) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "DeactivateMember", err)
		return
	}
	if err := h.memberSvc.Deactivate(r.Context(), id); err != nil {
		fail(w, r, "DeactivateMember", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- roulette ---

// POST /roulette/draw
// Accepts JSON {"participants":[..],"presenters":[..]} or a form with repeated fields.
func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseDrawRequest(r)
	if err != nil {
		fail(w, r, "Draw", err)
		return
	}
	draw, err := h.rouletteSvc.Draw(r.Context(), req.Participants, req.Presenters)
	if err != nil {
		fail(w, r, "Draw", err)
		return
	}
	ok(w, http.StatusOK, toDrawResponse(draw))
}

func (h *Handler) parseDrawRequest(r *http.Request) (*DrawRequest, error) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") && !strings.HasPrefix(ct, "multipart/form-data") {
		var req DrawRequest
		if err := h.decode(r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, invalidInput("invalid form: %v", err)
	}
	participants, err := parseIDs(r.PostForm["participants"])
	if err != nil {
		return nil, err
	}
	presenters, err := parseIDs(r.PostForm["presenters"])
	if err != nil {
		return nil, err
	}
	return &DrawRequest{Participants: participants, Presenters: presenters}, nil
}

func parseIDs(values []string) ([]int64, error) {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return nil, invalidInput("invalid member id %q", v)
		}
		out = append(out, id)
	}
	return out, nil
}

// --- memos ---

// GET /memos?limit=&cursor=
func (h *Handler) ListMemos(w http.ResponseWriter, r *http.Request) {
	limit := 0 // service default
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fail(w, r, "ListMemos", invalidInput("invalid limit %q", s))
			return
		}
		limit = n
	}
	memos, next, err := h.memoSvc.List(r.Context(), httpmw.UserIDFromCtx(r.Context()), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		fail(w, r, "ListMemos", err)
		return
	}
	ok(w, http.StatusOK, MemosListResponse{
		Items:      lo.Map(memos, func(m domain.Memo, _ int) MemoItem { return toMemoItem(m) }),
		NextCursor: next,
	})
}

// POST /memos
func (h *Handler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if err := h.decode(r, &req); err != nil {
		fail(w, r, "CreateMemo", err)
		return
	}
	m, err := h.memoSvc.Create(r.Context(), httpmw.UserIDFromCtx(r.Context()), req.Title, req.Body)
	if err != nil {
		fail(w, r, "CreateMemo", err)
		return
	}
	ok(w, http.StatusCreated, toMemoItem(*m))
}

// GET /memos/{id}
func (h *Handler) GetMemo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "GetMemo", err)
		return
	}
	m, err := h.memoSvc.Get(r.Context(), httpmw.UserIDFromCtx(r.Context()), id)
	if err != nil {
		fail(w, r, "GetMemo", err)
		return
	}
	ok(w, http.StatusOK, toMemoItem(*m))
}

// PUT /memos/{id}
func (h *Handler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "UpdateMemo", err)
		return
	}
	var req MemoRequest
	if err := h.decode(r, &req); err != nil {
		fail(w, r, "UpdateMemo", err)
		return
	}
	m, err := h.memoSvc.Update(r.Context(), httpmw.UserIDFromCtx(r.Context()), id, req.Title, req.Body)
	if err != nil {
		fail(w, r, "UpdateMemo", err)
		return
	}
	ok(w, http.StatusOK, toMemoItem(*m))
}

// DELETE /memos/{id}
func (h *Handler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "DeleteMemo", err)
		return
	}
	if err := h.memoSvc.Delete(r.Context(), httpmw.UserIDFromCtx(r.Context()), id); err != nil {
		fail(w, r, "DeleteMemo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /memos/{id}/export
func (h *Handler) ExportMemo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		fail(w, r, "ExportMemo", err)
		return
	}
	exp, err := h.memoSvc.ExportOne(r.Context(), httpmw.UserIDFromCtx(r.Context()), id)
	if err != nil {
		fail(w, r, "ExportMemo", err)
		return
	}
	writeAttachment(w, exp)
}

// GET /memos/export
func (h *Handler) ExportAllMemos(w http.ResponseWriter, r *http.Request) {
	exp, err := h.memoSvc.ExportAll(r.Context(), httpmw.UserIDFromCtx(r.Context()))
	if err != nil {
		fail(w, r, "ExportAllMemos", err)
		return
	}
	writeAttachment(w, exp)
}

func writeAttachment(w http.ResponseWriter, exp *service.Export) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(exp.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, exp.Content)
}

// contentDisposition sets both the ASCII fallback and the RFC 5987 UTF-8 name.
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(filename))
}
