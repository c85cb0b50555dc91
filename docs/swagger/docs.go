// Package swagger registers the OpenAPI document of the control surface.
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [
        {
            "ApiKeyAuth": []
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "description": "Reports liveness and whether the run journal schema is complete.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Health",
                "security": [],
                "responses": {
                    "200": {
                        "description": "Health",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "description": "Prometheus exposition of run and action counters.",
                "produces": ["text/plain"],
                "tags": ["sync"],
                "summary": "Metrics",
                "responses": {
                    "200": {
                        "description": "Metrics",
                        "schema": {"type": "string"}
                    }
                }
            }
        },
        "/sync/run": {
            "post": {
                "description": "Starts a sync run in the background. With wait=true the request blocks until the run finishes.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Trigger Sync Run",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Block until the run finishes",
                        "name": "wait",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Run Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "202": {
                        "description": "Run ID",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "409": {
                        "description": "Run In Progress",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Failed Run Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/sync/plan": {
            "get": {
                "description": "Computes the actions a run would apply without mutating the catalog.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Preview Plan",
                "responses": {
                    "200": {
                        "description": "Plan",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "502": {
                        "description": "Upstream Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/sync/runs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "List Runs",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Maximum runs returned",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Runs",
                        "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
                    },
                    "404": {
                        "description": "Journal Disabled",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/sync/reports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "List Reports",
                "responses": {
                    "200": {
                        "description": "Report IDs",
                        "schema": {"type": "array", "items": {"type": "string"}}
                    },
                    "404": {
                        "description": "Archive Disabled",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/sync/reports/{run_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Get Report",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Run ID",
                        "name": "run_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Run Report",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "404": {
                        "description": "Report Not Found",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/sync/vehicles/{sku}": {
            "get": {
                "description": "Compares one feed vehicle against its catalog products.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Inspect Vehicle",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vehicle SKU",
                        "name": "sku",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Inspection",
                        "schema": {"type": "object", "additionalProperties": true}
                    },
                    "502": {
                        "description": "Upstream Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AutoSync API",
	Description:      "Control surface for the AutoGestor to WooCommerce vehicle sync.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
