// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/current-activity": {
            "get": {
                "tags": [
                    "Activity"
                ],
                "summary": "Resolve the current activity",
                "description": "Event, habit page or queue by fixed precedence",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Activity descriptor"
                    }
                }
            }
        },
        "/current-activity/set-page": {
            "put": {
                "tags": [
                    "Activity"
                ],
                "summary": "Set today's habit page",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Activity descriptor"
                    },
                    "400": {
                        "description": "Invalid page"
                    }
                }
            }
        },
        "/dayplans": {
            "get": {
                "tags": [
                    "Day plans"
                ],
                "summary": "List today's time blocks",
                "description": "Pulls new calendar events first; serves stored blocks when the calendar is unreachable",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Time blocks"
                    }
                }
            },
            "post": {
                "tags": [
                    "Day plans"
                ],
                "summary": "Create a time block for today",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created, with an optional sync warning"
                    },
                    "400": {
                        "description": "Invalid time range"
                    }
                }
            }
        },
        "/dayplans/current": {
            "get": {
                "tags": [
                    "Day plans"
                ],
                "summary": "Get the time block containing now",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Time block"
                    },
                    "404": {
                        "description": "No block is current"
                    }
                }
            }
        },
        "/dayplans/sync": {
            "post": {
                "tags": [
                    "Day plans"
                ],
                "summary": "Import today's calendar events",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Time blocks"
                    },
                    "502": {
                        "description": "Calendar unavailable"
                    }
                }
            }
        },
        "/dayplans/{id}": {
            "put": {
                "tags": [
                    "Day plans"
                ],
                "summary": "Update a time block",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated, with an optional sync warning"
                    },
                    "404": {
                        "description": "Not found"
                    },
                    "409": {
                        "description": "Block has no calendar event"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Day plans"
                ],
                "summary": "Delete a time block",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Deleted, with an optional sync warning"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/tasks": {
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Create a task at the end of the queue",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Task"
                    },
                    "400": {
                        "description": "Invalid input"
                    }
                }
            }
        },
        "/tasks/incomplete": {
            "get": {
                "tags": [
                    "Tasks"
                ],
                "summary": "List pending tasks in queue order",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Paginated tasks"
                    }
                }
            }
        },
        "/tasks/reorder": {
            "put": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Reorder the queue",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Reordered"
                    },
                    "404": {
                        "description": "Unknown task"
                    }
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Get task by ID",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            },
            "delete": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Delete a task",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/tasks/{id}/extend": {
            "post": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Add time to a task",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task"
                    },
                    "409": {
                        "description": "Task already completed"
                    }
                }
            }
        },
        "/tasks/{id}/decrement-time": {
            "put": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Take one tick off a task's timer",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task with total time"
                    },
                    "409": {
                        "description": "Task already completed"
                    }
                }
            }
        },
        "/tasks/{id}/total-time": {
            "get": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Original length plus extensions in seconds",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Total time"
                    }
                }
            }
        },
        "/tasks/{id}/time-remaining": {
            "get": {
                "tags": [
                    "Tasks"
                ],
                "summary": "Remaining time in seconds",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Remaining time"
                    }
                }
            }
        },
        "/reminders": {
            "get": {
                "tags": [
                    "Notes"
                ],
                "summary": "List reminders",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Reminders"
                    }
                }
            },
            "post": {
                "tags": [
                    "Notes"
                ],
                "summary": "Create a reminder",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Reminder"
                    }
                }
            }
        },
        "/goals": {
            "get": {
                "tags": [
                    "Notes"
                ],
                "summary": "List goals",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Goals"
                    }
                }
            },
            "post": {
                "tags": [
                    "Notes"
                ],
                "summary": "Create a goal for today",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Goal"
                    }
                }
            }
        },
        "/notes/latest": {
            "get": {
                "tags": [
                    "Notes"
                ],
                "summary": "Latest reminder and goal",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Latest notes"
                    }
                }
            }
        },
        "/journals": {
            "get": {
                "tags": [
                    "Journals"
                ],
                "summary": "List journal entries",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Journals"
                    }
                }
            },
            "post": {
                "tags": [
                    "Journals"
                ],
                "summary": "Write a journal entry",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Journal"
                    },
                    "400": {
                        "description": "No sections"
                    }
                }
            }
        },
        "/journals/{id}": {
            "get": {
                "tags": [
                    "Journals"
                ],
                "summary": "Get a journal entry",
                "parameters": [
                    {
                        "type": "integer",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Journal"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and the token from 'focusqueue token issue'"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "FocusQueue API",
	Description:      "Time blocks, task queue and current activity",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
