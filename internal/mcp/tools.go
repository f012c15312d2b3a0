package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func integer(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

var readOnly = map[string]any{"readOnlyHint": true}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Projects
		{
			Name:        "list_projects",
			Description: "List one page of projects filtered by name and status, sorted by a column. The page becomes the session's current page for select_all_on_page.",
			InputSchema: object(map[string]any{
				"search": str("Case-insensitive substring of the project name"),
				"statuses": map[string]any{
					"type":        "array",
					"description": "Status kinds to keep (empty keeps all)",
					"items": map[string]any{
						"type": "string",
						"enum": []string{"completed", "in_progress", "pending", "not_initiated", "review"},
					},
				},
				"sort_by": map[string]any{
					"type":        "string",
					"description": "Sort column (default initiated_at)",
					"enum":        []string{"name", "initiated_at", "status"},
				},
				"sort_direction": map[string]any{
					"type":        "string",
					"description": "Sort direction (default desc for initiated_at)",
					"enum":        []string{"asc", "desc"},
				},
				"page":      integer("1-based page number"),
				"page_size": integer("Rows per page (default 10)"),
			}),
			Annotations: readOnly,
		},
		{
			Name:        "get_summary",
			Description: "Count projects per status kind",
			InputSchema: object(map[string]any{}),
			Annotations: readOnly,
		},
		{
			Name:        "get_project",
			Description: "Get one project with its status",
			InputSchema: object(map[string]any{
				"id": str("Project ID"),
			}, "id"),
			Annotations: readOnly,
		},

		// Selection
		{
			Name:        "toggle_selection",
			Description: "Select or deselect one project in the current session",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
			}, "project_id"),
		},
		{
			Name:        "select_all_on_page",
			Description: "Header checkbox: select exactly the rows of the current page, or clear the selection if it already equals them",
			InputSchema: object(map[string]any{
				"ids": stringList("Row ids to use instead of the last listed page"),
			}),
		},
		{
			Name:        "clear_selection",
			Description: "Deselect every project in the current session",
			InputSchema: object(map[string]any{}),
		},

		// Initiation
		{
			Name:        "initiate_projects",
			Description: "Move the given projects to pending with one shared timestamp and start a simulated run for each. Unknown ids are ignored.",
			InputSchema: object(map[string]any{
				"ids": stringList("Project IDs to initiate"),
			}, "ids"),
		},
		{
			Name:        "initiate_selected",
			Description: "Initiate every selected project, then clear the selection",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "set_status",
			Description: "Overwrite a project's status. Cancels the project's active run.",
			InputSchema: object(map[string]any{
				"id": str("Project ID"),
				"status": object(map[string]any{
					"kind": map[string]any{
						"type": "string",
						"enum": []string{"completed", "in_progress", "pending", "not_initiated", "review"},
					},
					"pending_count": integer("Documents awaiting review (review only)"),
					"processed":     integer("Processed documents (in_progress only)"),
					"total":         integer("Total documents (in_progress only)"),
				}, "kind"),
			}, "id", "status"),
		},
		{
			Name:        "refresh_projects",
			Description: "Reload the catalog from the data source. Cancels every active run.",
			InputSchema: object(map[string]any{}),
		},

		// Documents
		{
			Name:        "get_document_tree",
			Description: "Get a project's folders and documents with their inclusion flags",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
			}, "project_id"),
			Annotations: readOnly,
		},
		{
			Name:        "toggle_folder",
			Description: "Flip a folder's inclusion and apply it to every document in the folder",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
				"folder_id":  str("Folder ID"),
			}, "project_id", "folder_id"),
		},
		{
			Name:        "toggle_document",
			Description: "Flip one document's inclusion. Without parent_id the id names a folder.",
			InputSchema: object(map[string]any{
				"project_id":  str("Project ID"),
				"document_id": str("Document ID"),
				"parent_id":   str("Folder containing the document"),
			}, "project_id", "document_id"),
		},
		{
			Name:        "exclude_all",
			Description: "Exclude a folder and all of its documents",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
				"folder_id":  str("Folder ID"),
			}, "project_id", "folder_id"),
		},
		{
			Name:        "reset_documents",
			Description: "Discard inclusion edits and reload the tree from the data source",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
			}, "project_id"),
		},
		{
			Name:        "run_project",
			Description: "Start a run over the included documents. Fails when nothing is included.",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID"),
			}, "project_id"),
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "Get recent activity entries, newest first",
			InputSchema: object(map[string]any{
				"project_id": str("Project ID to filter by"),
				"type": map[string]any{
					"type":        "string",
					"description": "Activity type to filter by",
					"enum":        []string{"status_changed", "projects_initiated", "run_started", "projects_refreshed", "documents_updated"},
				},
				"limit":  integer("Maximum number of activity entries"),
				"offset": integer("Entries to skip"),
			}),
			Annotations: readOnly,
		},
	}
}

// Tools returns the tool catalog in registration order.
func Tools() []ToolDefinition {
	return buildToolCatalog()
}
