package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `medchron tracks legal cases (projects) whose medical records are processed into chronologies.

Core concepts:
- Project: a case with a status. Kinds: completed, in_progress (processed/total), pending, not_initiated, review (pending_count).
- Run: the simulated processing of one project. pending waits a moment, then in_progress advances until processed reaches total.
- Selection: the set of checked rows in your session. It survives paging and filtering.
- Document tree: folders of candidate documents; only included documents are processed by run_project.

Default workflow:
1) Orient: get_summary, then list_projects (search, statuses, sort_by, sort_direction, page, page_size).
2) Select: toggle_selection per row or select_all_on_page for the page you just listed.
3) Start work: initiate_selected (or initiate_projects with explicit ids).
4) Narrow one case: get_document_tree, toggle_folder / toggle_document / exclude_all, then run_project.
5) Watch: get_project or list_projects again; get_recent_activity for history.

Notes:
- refresh_projects reloads the catalog and cancels every active run.
- set_status overrides a status and cancels that project's run.
- HTTP: pass the session id via the Mcp-Session-Id header. Stdio: _meta.session_id when supported.

Docs:
- medchron://docs/index
- medchron://docs/statuses
- medchron://docs/documents
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "medchron://docs/index",
		Name:        "docs_index",
		Title:       "medchron docs index",
		Description: "Entry point: tools by task and what to read next.",
		Content: `# medchron: Docs Index

## Tools by task

| task | tools |
|---|---|
| browse | get_summary, list_projects, get_project |
| select | toggle_selection, select_all_on_page, clear_selection |
| start runs | initiate_selected, initiate_projects, run_project |
| documents | get_document_tree, toggle_folder, toggle_document, exclude_all, reset_documents |
| maintenance | refresh_projects, set_status |
| history | get_recent_activity |

## Read next

- medchron://docs/statuses for the status lifecycle and run timing.
- medchron://docs/documents for inclusion rules.

## Limitations

- Runs are simulated; no documents are actually processed.
- The catalog is regenerated on refresh; ids stay stable but statuses reset.
`,
	},
	{
		URI:         "medchron://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Status lifecycle",
		Description: "Status kinds, their payloads, and how runs move between them.",
		Content: `# Status lifecycle

    not_initiated -> pending -> in_progress(processed/total) -> completed

- review(pending_count) is an independent state set by the data source.
- Initiating moves a project to pending immediately and stamps initiated_by / initiated_at.
- A bulk initiation shares one timestamp and staggers the start of each run.
- in_progress.total is fixed for the whole run; processed only grows and never exceeds total.
- Completion clears progress. A run with nothing to process completes right after it starts.

## Overrides

set_status writes any valid status and cancels the project's active run. A server may be
configured with strict transitions, in which case only the edges above (plus re-initiation
into pending) are accepted and others fail with INVALID_TRANSITION.

## Sorting

Status sort order is completed, in_progress, pending, not_initiated, review. Ties keep the
catalog order.
`,
	},
	{
		URI:         "medchron://docs/documents",
		Name:        "docs_documents",
		Title:       "Document inclusion",
		Description: "How folder and document toggles interact and what run_project needs.",
		Content: `# Document inclusion

Trees have two levels: folders and their documents.

- toggle_folder flips the folder and sets every child to the folder's new value.
- toggle_document flips one document. The folder's own flag and the other documents are left
  alone. Without parent_id the id names a folder and behaves like toggle_folder.
- exclude_all excludes a folder and every child.
- reset_documents discards edits.

run_project counts included documents. Zero fails with NO_DOCUMENTS_INCLUDED; otherwise the
count becomes the run's total and the inclusion choices are kept as the run snapshot, returned
by get_document_tree as last_run.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
