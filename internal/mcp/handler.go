package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/domain/session"
	"github.com/rpggio/medchron/internal/view"
)

// DashboardService defines the project operations needed by MCP.
type DashboardService interface {
	Operator() project.User
	List(cfg view.Config) (view.Page, error)
	Summary() view.Summary
	Get(id string) (project.Project, error)
	Initiate(ctx context.Context, ids []string) []string
	SetStatus(id string, status project.Status) (project.Project, error)
	Refresh(ctx context.Context) (int, error)
}

// DocumentService defines document tree operations needed by MCP.
type DocumentService interface {
	Tree(ctx context.Context, projectID string) ([]document.Candidate, error)
	ToggleFolder(ctx context.Context, projectID, folderID string) ([]document.Candidate, error)
	ToggleDocument(ctx context.Context, projectID, docID, parentID string) ([]document.Candidate, error)
	ExcludeAll(ctx context.Context, projectID, folderID string) ([]document.Candidate, error)
	Reset(ctx context.Context, projectID string) ([]document.Candidate, error)
	Run(ctx context.Context, projectID string, by project.User) (*document.RunSnapshot, error)
	LastRun(projectID string) (document.RunSnapshot, bool)
}

// SessionService defines selection operations needed by MCP.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*session.Session, error)
	RecordView(ctx context.Context, sessionID string, cfg view.Config, visible []string) (*session.Session, error)
	Toggle(ctx context.Context, sessionID, projectID string) (*session.Session, error)
	SelectAllOnPage(ctx context.Context, sessionID string, visible []string) (*session.Session, error)
	Clear(ctx context.Context, sessionID string) (*session.Session, error)
	TakeSelection(ctx context.Context, sessionID string) ([]string, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// ToolObserver is told about every dispatched call.
type ToolObserver interface {
	ToolCalled(tool string, err error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Dashboard DashboardService
	Documents DocumentService
	Sessions  SessionService
	Activity  ActivityService
}

// Handler dispatches MCP commands.
type Handler struct {
	dashboard DashboardService
	documents DocumentService
	sessions  SessionService
	activity  ActivityService
	observer  ToolObserver
}

// NewHandler creates a new MCP handler. observer may be nil.
func NewHandler(services Services, observer ToolObserver) *Handler {
	return &Handler{
		dashboard: services.Dashboard,
		documents: services.Documents,
		sessions:  services.Sessions,
		activity:  services.Activity,
		observer:  observer,
	}
}

// Handle dispatches one tool call on behalf of sessionID.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (result any, err error) {
	if h.observer != nil {
		defer func() { h.observer.ToolCalled(method, err) }()
	}

	switch method {
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		cfg, err := req.config().Normalize()
		if err != nil {
			return nil, mapError(err)
		}
		page, err := h.dashboard.List(cfg)
		if err != nil {
			return nil, mapError(err)
		}
		sess, err := h.sessions.RecordView(ctx, sessionID, cfg, page.IDs())
		if err != nil {
			return nil, mapError(err)
		}
		sel := sess.Selection()
		resp := ListProjectsResponse{
			Rows:         make([]ProjectResponse, 0, len(page.Rows)),
			TotalMatched: page.TotalMatched,
			TotalPages:   page.TotalPages,
			Page:         page.Page,
			PageSize:     page.PageSize,
			View:         cfg,
			Selected:     sel.IDs(),
		}
		for _, p := range page.Rows {
			resp.Rows = append(resp.Rows, projectResponse(p, sel.Has(p.ID)))
		}
		return resp, nil
	case "get_summary":
		summary := h.dashboard.Summary()
		total := 0
		for _, n := range summary {
			total += n
		}
		return SummaryResponse{Counts: summary, Total: total}, nil
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, err := h.dashboard.Get(req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		sess, err := h.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, mapError(err)
		}
		return projectResponse(p, sess.Selection().Has(p.ID)), nil
	case "toggle_selection":
		var req ToggleSelectionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.sessions.Toggle(ctx, sessionID, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return selectionResponse(sess), nil
	case "select_all_on_page":
		var req SelectAllOnPageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.sessions.SelectAllOnPage(ctx, sessionID, req.IDs)
		if err != nil {
			return nil, mapError(err)
		}
		return selectionResponse(sess), nil
	case "clear_selection":
		sess, err := h.sessions.Clear(ctx, sessionID)
		if err != nil {
			return nil, mapError(err)
		}
		return selectionResponse(sess), nil
	case "initiate_projects":
		var req InitiateProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return initiateResponse(h.dashboard.Initiate(ctx, req.IDs)), nil
	case "initiate_selected":
		ids, err := h.sessions.TakeSelection(ctx, sessionID)
		if err != nil {
			return nil, mapError(err)
		}
		return initiateResponse(h.dashboard.Initiate(ctx, ids)), nil
	case "set_status":
		var req SetStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, err := h.dashboard.SetStatus(req.ID, req.Status)
		if err != nil {
			return nil, mapError(err)
		}
		return projectResponse(p, false), nil
	case "refresh_projects":
		n, err := h.dashboard.Refresh(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return RefreshResponse{Count: n}, nil
	case "get_document_tree":
		var req DocumentTreeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.treeResponse(req.ProjectID)(h.documents.Tree(ctx, req.ProjectID))
	case "toggle_folder":
		var req ToggleFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.treeResponse(req.ProjectID)(h.documents.ToggleFolder(ctx, req.ProjectID, req.FolderID))
	case "toggle_document":
		var req ToggleDocumentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.treeResponse(req.ProjectID)(h.documents.ToggleDocument(ctx, req.ProjectID, req.DocumentID, req.ParentID))
	case "exclude_all":
		var req ToggleFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.treeResponse(req.ProjectID)(h.documents.ExcludeAll(ctx, req.ProjectID, req.FolderID))
	case "reset_documents":
		var req DocumentTreeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.treeResponse(req.ProjectID)(h.documents.Reset(ctx, req.ProjectID))
	case "run_project":
		var req RunProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, err := h.documents.Run(ctx, req.ProjectID, h.dashboard.Operator())
		if err != nil {
			return nil, mapError(err)
		}
		return snap, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListOptions{
			ProjectID: req.ProjectID,
			Limit:     req.Limit,
			Offset:    req.Offset,
		}
		if req.Type != "" {
			typ := activity.Type(req.Type)
			opts.Type = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			item := ActivityEntryResponse{
				ID:        entry.ID,
				Timestamp: entry.CreatedAt,
				Type:      entry.Type,
				ProjectID: entry.ProjectID,
				Summary:   entry.Summary,
			}
			if entry.Details != "" && json.Valid([]byte(entry.Details)) {
				item.Details = json.RawMessage(entry.Details)
			}
			resp = append(resp, item)
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %w", ErrInvalidParams, err))
	}
	return nil
}

// treeResponse wraps a document service result with the counts and last
// run of projectID.
func (h *Handler) treeResponse(projectID string) func([]document.Candidate, error) (any, error) {
	return func(tree []document.Candidate, err error) (any, error) {
		if err != nil {
			return nil, mapError(err)
		}
		resp := DocumentTreeResponse{
			ProjectID:     projectID,
			Tree:          tree,
			IncludedCount: document.IncludedCount(tree),
		}
		if snap, ok := h.documents.LastRun(projectID); ok {
			resp.LastRun = &snap
		}
		return resp, nil
	}
}

func projectResponse(p project.Project, selected bool) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Status:      p.Status,
		StatusLabel: p.Status.Label(),
		InitiatedBy: p.InitiatedBy,
		InitiatedAt: p.InitiatedAt,
		Selected:    selected,
	}
}

func selectionResponse(sess *session.Session) SelectionResponse {
	ids := sess.Selection().IDs()
	return SelectionResponse{Selected: ids, Count: len(ids)}
}

func initiateResponse(ids []string) InitiateResponse {
	if ids == nil {
		ids = []string{}
	}
	return InitiateResponse{Initiated: ids, Count: len(ids)}
}
