// Package docs registers the OpenAPI document served by gin-swagger.
// It follows the layout swag emits so `swag init` output can replace it; keep
// it in sync with the handler annotations by hand until then.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/sync": {
            "post": {
                "description": "Mirrors the ATS job list into the database and returns the run record. Only mounted when ADMIN_TOKEN is configured.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Run an ATS sync",
                "operationId": "triggerSync",
                "parameters": [
                    {"type": "string", "description": "Admin token", "name": "X-Admin-Token", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SyncRun"}},
                    "401": {"description": "Missing or wrong token", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Another sync is running", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Sync failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "ATS not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "description": "Returns a page of mirrored jobs. With q the results are ranked by relevance, otherwise newest first. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Search jobs (paginated)",
                "operationId": "listJobs",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"type": "string", "description": "Free-text query", "name": "q", "in": "query"},
                    {"type": "string", "description": "Exact department (case-insensitive)", "name": "department", "in": "query"},
                    {"type": "string", "description": "Exact location (case-insensitive)", "name": "location", "in": "query"},
                    {"type": "string", "description": "full_time, part_time, contract, internship, temporary, other", "name": "employment_type", "in": "query"},
                    {"type": "string", "format": "uuid", "description": "Company ID", "name": "company_id", "in": "query"},
                    {"type": "boolean", "description": "Remote-only filter", "name": "remote", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.ListJobsResponse"},
                        "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}
                    },
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "description": "Returns one mirrored job with its company.",
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Get a job",
                "operationId": "getJob",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Job"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/jobs/{id}/applications": {
            "post": {
                "description": "Forwards the candidate to the ATS and records the application. Supports idempotency via the Idempotency-Key header (same client, job, and key → same result).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Applications"],
                "summary": "Apply to a job",
                "operationId": "applyToJob",
                "parameters": [
                    {"type": "string", "description": "Opaque client identifier", "name": "X-Client-ID", "in": "header"},
                    {"type": "string", "description": "Idempotency key for safe retries (UUID recommended)", "name": "Idempotency-Key", "in": "header"},
                    {"type": "string", "format": "uuid", "description": "Job ID", "name": "id", "in": "path", "required": true},
                    {"description": "Candidate", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ApplyRequest"}}
                ],
                "responses": {
                    "200": {
                        "description": "Replayed result",
                        "schema": {"$ref": "#/definitions/domain.Application"},
                        "headers": {"Idempotency-Replayed": {"type": "string", "description": "true when served from a stored result"}}
                    },
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Application"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Same Idempotency-Key still in progress", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "ATS request failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "ATS not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/jobs/{id}/live": {
            "get": {
                "description": "Fetches the current ATS version of a mirrored job, bypassing the local copy.",
                "produces": ["application/json"],
                "tags": ["Jobs"],
                "summary": "Get a job from the ATS",
                "operationId": "getJobLive",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ats.Posting"}},
                    "404": {"description": "Job not found locally or upstream", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "ATS request failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "ATS not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/metadata/": {
            "get": {
                "description": "Returns job totals, per-column facets in collated order, companies with job counts, and the time of the last successful sync.",
                "produces": ["application/json"],
                "tags": ["Metadata"],
                "summary": "Listing metadata",
                "operationId": "getMetadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Metadata"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ats.Company": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "website": {"type": "string"}
            }
        },
        "ats.Posting": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "company": {"$ref": "#/definitions/ats.Company"},
                "department": {"type": "string"},
                "location": {"type": "string"},
                "employment_type": {"type": "string"},
                "remote": {"type": "boolean"},
                "description": {"type": "string"},
                "apply_url": {"type": "string"},
                "posted_at": {"type": "string"}
            }
        },
        "domain.Application": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "job_id": {"type": "string"},
                "candidate_id": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Company": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "website": {"type": "string"},
                "industry": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "external_id": {"type": "string"},
                "company_id": {"type": "string"},
                "company": {"$ref": "#/definitions/domain.Company"},
                "title": {"type": "string"},
                "department": {"type": "string"},
                "location": {"type": "string"},
                "employment_type": {"type": "string"},
                "remote": {"type": "boolean"},
                "description": {"type": "string"},
                "apply_url": {"type": "string"},
                "posted_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.SyncRun": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"},
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "fetched": {"type": "integer"},
                "upserted": {"type": "integer"},
                "removed": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "handlers.ApplyRequest": {
            "type": "object",
            "required": ["email", "first_name", "last_name"],
            "properties": {
                "first_name": {"type": "string", "maxLength": 100, "example": "Ada"},
                "last_name": {"type": "string", "maxLength": 100, "example": "Lovelace"},
                "email": {"type": "string", "maxLength": 255, "example": "ada@example.com"},
                "phone": {"type": "string", "maxLength": 50, "example": "+44 20 7946 0000"},
                "resume_url": {"type": "string", "maxLength": 1024, "example": "https://example.com/cv.pdf"},
                "cover_letter": {"type": "string", "maxLength": 10000}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"description": "Correlates server logs and client errors", "type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"description": "Stable, machine-readable code (see errors.go constants)", "type": "string", "example": "not_found"},
                "message": {"description": "Human-readable message (safe to show to users)", "type": "string", "example": "Jobs / 42: Not Found"}
            }
        },
        "handlers.ListJobsResponse": {
            "type": "object",
            "properties": {
                "jobs": {"type": "array", "items": {"$ref": "#/definitions/domain.Job"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "repo.CompanyCount": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "industry": {"type": "string"},
                "job_count": {"type": "integer"}
            }
        },
        "repo.FacetCount": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "services.Metadata": {
            "type": "object",
            "properties": {
                "total_jobs": {"type": "integer"},
                "remote_jobs": {"type": "integer"},
                "departments": {"type": "array", "items": {"$ref": "#/definitions/repo.FacetCount"}},
                "locations": {"type": "array", "items": {"$ref": "#/definitions/repo.FacetCount"}},
                "employment_types": {"type": "array", "items": {"$ref": "#/definitions/repo.FacetCount"}},
                "companies": {"type": "array", "items": {"$ref": "#/definitions/repo.CompanyCount"}},
                "last_synced_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Job Board API",
	Description:      "Search, inspect, and apply to jobs mirrored from an applicant tracking system.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
