// Package docs holds the OpenAPI 2.0 document for the HTTP API and registers
// it with swag. It mirrors the handler annotations in
// internal/adapters/driving/http; docs_test.go checks that every route is
// described. Regenerate with `swag init -g cmd/resumelens/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/chunk": {
            "post": {
                "description": "Splits text into overlapping, word-aligned chunks",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Chunk text",
                "parameters": [
                    {
                        "description": "Text and chunking parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.ChunkRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ChunkResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/document/extract": {
            "post": {
                "description": "Converts an uploaded PDF, DOCX, HTML or text file into plain text",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Extract document text",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Document to extract",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ExtractResponse"}},
                    "400": {"description": "Missing or empty file", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "415": {"description": "Unsupported document type", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "422": {"description": "Text could not be extracted", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/embed": {
            "post": {
                "description": "Embeds every chunk and stores the document in the session, replacing any previous one",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Embed chunks",
                "parameters": [
                    {
                        "description": "Session and chunks",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.EmbedRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.EmbedResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "429": {"description": "Provider quota exceeded", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Embedding generation failed", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/rag/chat": {
            "post": {
                "description": "Answers a question grounded in the session's document, citing the chunks used",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Retrieval"],
                "summary": "Ask a question",
                "parameters": [
                    {
                        "description": "Session, question and result count",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.RAGRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RAGResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "429": {"description": "Provider quota exceeded", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Provider call failed", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "AI services not configured", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/search": {
            "post": {
                "description": "Ranks the session's chunks by cosine similarity to a query embedding",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Retrieval"],
                "summary": "Vector search",
                "parameters": [
                    {
                        "description": "Session, query vector and result count",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.SearchRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SearchResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/session/create": {
            "post": {
                "description": "Opens an ephemeral session that holds one document until it expires",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Create session",
                "parameters": [
                    {
                        "description": "Session source type",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.CreateSessionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.SessionInfo"}},
                    "400": {"description": "Invalid source type", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Session capacity exceeded", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/session/{id}": {
            "get": {
                "description": "Returns the state of a live session",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Get session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SessionInfo"}},
                    "404": {"description": "Session not found or expired", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Removes a session and everything it holds",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Delete session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.DeleteSessionResponse"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "description": "Returns the number of live sessions and the configured limit",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Session statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SessionStats"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Returns readiness, AI capability flags and the session backend state",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ReadyResponse"}},
                    "503": {"description": "Session backend unreachable", "schema": {"$ref": "#/definitions/http.ReadyResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the current API version",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Get API version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Chunk": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "index": {"type": "integer"},
                "metadata": {"$ref": "#/definitions/domain.ChunkMetadata"},
                "text": {"type": "string"}
            }
        },
        "domain.ChunkMetadata": {
            "type": "object",
            "properties": {
                "page_number": {"type": "integer"},
                "section": {"type": "string"},
                "source_type": {"type": "string", "enum": ["resume", "jd"]}
            }
        },
        "domain.RAGResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "confidence": {"type": "number"},
                "sources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.SearchResult": {
            "type": "object",
            "properties": {
                "chunk_id": {"type": "string"},
                "chunk_text": {"type": "string"},
                "score": {"type": "number"}
            }
        },
        "domain.SessionInfo": {
            "type": "object",
            "properties": {
                "chunk_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "document_digest": {"type": "string"},
                "embedding_count": {"type": "integer"},
                "expires_at": {"type": "string"},
                "expires_in_seconds": {"type": "integer"},
                "ready": {"type": "boolean"},
                "session_id": {"type": "string"},
                "source_type": {"type": "string", "enum": ["resume", "jd"]}
            }
        },
        "domain.SessionStats": {
            "type": "object",
            "properties": {
                "active_sessions": {"type": "integer"},
                "max_sessions": {"type": "integer"}
            }
        },
        "http.ChunkMetadataRequest": {
            "type": "object",
            "properties": {
                "page_number": {"type": "integer", "example": 1},
                "section": {"type": "string", "example": "Experience"}
            }
        },
        "http.ChunkRequest": {
            "description": "Chunking request",
            "type": "object",
            "properties": {
                "max_chunk_size": {"type": "integer", "maximum": 2000, "minimum": 100, "example": 1000},
                "metadata": {"$ref": "#/definitions/http.ChunkMetadataRequest"},
                "overlap": {"type": "number", "maximum": 0.5, "minimum": 0, "example": 0.25},
                "session_id": {"type": "string"},
                "source_type": {"type": "string", "example": "resume"},
                "text": {"type": "string"}
            }
        },
        "http.ChunkResponse": {
            "description": "Chunking result",
            "type": "object",
            "properties": {
                "chunks": {"type": "array", "items": {"$ref": "#/definitions/domain.Chunk"}},
                "total_chunks": {"type": "integer"}
            }
        },
        "http.CreateSessionRequest": {
            "description": "Session creation request",
            "type": "object",
            "properties": {
                "source_type": {"type": "string", "enum": ["resume", "jd"], "example": "resume"}
            }
        },
        "http.DeleteSessionResponse": {
            "description": "Session deletion result",
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Session 3f2b... deleted"},
                "success": {"type": "boolean"}
            }
        },
        "http.EmbedRequest": {
            "description": "Embedding request",
            "type": "object",
            "properties": {
                "chunks": {"type": "array", "items": {"$ref": "#/definitions/domain.Chunk"}},
                "session_id": {"type": "string"}
            }
        },
        "http.EmbedResponse": {
            "description": "Embedding result",
            "type": "object",
            "properties": {
                "document_digest": {"type": "string"},
                "embedding_count": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "http.ErrorResponse": {
            "description": "API error response",
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid request body"},
                "message": {"type": "string", "example": "Please wait a few minutes and try again"}
            }
        },
        "http.ExtractResponse": {
            "description": "Document extraction result",
            "type": "object",
            "properties": {
                "characters": {"type": "integer", "example": 5231},
                "mime_type": {"type": "string", "example": "application/pdf"},
                "text": {"type": "string"}
            }
        },
        "http.RAGRequest": {
            "description": "Question answering request",
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "Which programming languages does the candidate know?"},
                "session_id": {"type": "string"},
                "top_k": {"type": "integer", "maximum": 50, "minimum": 1, "example": 8}
            }
        },
        "http.ReadyResponse": {
            "description": "Readiness status with AI capability flags",
            "type": "object",
            "properties": {
                "can_answer": {"type": "boolean"},
                "can_embed": {"type": "boolean"},
                "embedding_model": {"type": "string", "example": "embedding-001"},
                "llm_model": {"type": "string", "example": "gemini-2.5-flash"},
                "redis": {"type": "string", "example": "ok"},
                "session_backend": {"type": "string", "example": "memory"},
                "status": {"type": "string", "example": "ready"}
            }
        },
        "http.SearchRequest": {
            "description": "Vector search request",
            "type": "object",
            "properties": {
                "query_embedding": {"type": "array", "items": {"type": "number"}},
                "session_id": {"type": "string"},
                "top_k": {"type": "integer", "maximum": 50, "minimum": 1, "example": 8}
            }
        },
        "http.SearchResponse": {
            "description": "Vector search result",
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/domain.SearchResult"}}
            }
        },
        "http.StatusResponse": {
            "description": "Simple status response",
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "http.VersionResponse": {
            "description": "API version response",
            "type": "object",
            "properties": {
                "version": {"type": "string", "example": "1.0.0"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ResumeLens API",
	Description:      "Ephemeral, session-scoped retrieval-augmented question answering over a single resume or job description.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
