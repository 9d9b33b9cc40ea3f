package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Révijouer quiz and Anki bridge API",
        "title": "Révijouer API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/settings/save": {
            "post": {
                "tags": [
                    "settings"
                ],
                "summary": "Save settings",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSettingsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResultResponse"
                        }
                    }
                },
                "description": "Merge the submitted values into the stored settings"
            }
        },
        "/game/check_answer": {
            "post": {
                "tags": [
                    "game"
                ],
                "summary": "Check an answer",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CheckAnswerRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CheckAnswerResult"
                        }
                    }
                },
                "description": "Grade an answer, update the score and the question statistics"
            }
        },
        "/game/reset_scores": {
            "post": {
                "tags": [
                    "game"
                ],
                "summary": "Reset scores",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResultResponse"
                        }
                    }
                }
            }
        },
        "/game/save_question": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Create a question",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveQuestionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SaveQuestionResponse"
                        }
                    }
                },
                "description": "Write a new question file with the next free ID"
            }
        },
        "/game/create_folder": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Create a folder",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateFolderRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CreateFolderResponse"
                        }
                    }
                }
            }
        },
        "/game/rename_folder": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Rename a folder",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RenameFolderRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/RenameFolderResponse"
                        }
                    }
                }
            }
        },
        "/game/delete_folder": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Delete a folder and everything below it",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FolderPathRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResultResponse"
                        }
                    }
                }
            }
        },
        "/game/move_items": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Move questions and folders",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/MoveItemsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/MoveItemsResponse"
                        }
                    }
                }
            }
        },
        "/game/toggle_question_completion": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Toggle the completed flag of a question",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/QuestionFileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ToggleCompletionResponse"
                        }
                    }
                }
            }
        },
        "/game/delete_question": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Delete a question file",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/QuestionFileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResultResponse"
                        }
                    }
                }
            }
        },
        "/game/focus_folder": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Focus the fill-in-the-blank game on a folder",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/FolderPathRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/FocusResponse"
                        }
                    }
                }
            }
        },
        "/game/clear_focus": {
            "post": {
                "tags": [
                    "questions"
                ],
                "summary": "Play every folder again",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/FocusResponse"
                        }
                    }
                }
            }
        },
        "/api/questions/tree": {
            "get": {
                "tags": [
                    "questions"
                ],
                "summary": "Question tree",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/TreeNode"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "game_type",
                        "type": "string",
                        "enum": [
                            "texte_a_trous",
                            "relier_images"
                        ]
                    }
                ],
                "description": "Recursive listing of folders and question files"
            }
        },
        "/anki/authenticate": {
            "get": {
                "tags": [
                    "anki"
                ],
                "summary": "Authenticate with Anki",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/AuthenticateResponse"
                        }
                    }
                },
                "description": "Check the configured credentials and the AnkiConnect connection"
            }
        },
        "/anki/test-connection": {
            "get": {
                "tags": [
                    "anki"
                ],
                "summary": "Test the AnkiConnect connection",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ConnectionResponse"
                        }
                    }
                }
            }
        },
        "/anki/decks": {
            "get": {
                "tags": [
                    "anki"
                ],
                "summary": "List Anki decks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/DecksResponse"
                        }
                    }
                }
            }
        },
        "/api/anki/cards/{deck}": {
            "get": {
                "tags": [
                    "anki"
                ],
                "summary": "Cards to review in a deck",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/CardsResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "deck",
                        "required": true,
                        "type": "string"
                    }
                ],
                "description": "New, learning and due cards, formatted for display"
            }
        },
        "/api/anki/answer": {
            "post": {
                "tags": [
                    "anki"
                ],
                "summary": "Answer a card",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AnswerCardRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResultResponse"
                        }
                    }
                },
                "description": "Submit an ease rating (1 again, 2 hard, 3 good, 4 easy)"
            }
        }
    },
    "definitions": {
        "ResultResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "UpdateSettingsRequest": {
            "type": "object",
            "properties": {
                "auto_validate": {
                    "type": "boolean"
                },
                "font_family": {
                    "type": "string"
                },
                "font_color": {
                    "type": "string"
                }
            }
        },
        "CheckAnswerRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "question_id": {
                    "type": "integer"
                },
                "answer": {
                    "type": "string"
                },
                "focus": {
                    "type": "string"
                }
            },
            "required": [
                "game_type",
                "question_id",
                "answer"
            ]
        },
        "CheckAnswerResult": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "correct": {
                    "type": "boolean"
                },
                "score": {
                    "type": "integer"
                },
                "next_question_id": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "SaveQuestionRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "folder": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "options": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "correct_answer": {
                    "type": "string"
                },
                "image_path": {
                    "type": "string"
                },
                "correct_word": {
                    "type": "string"
                },
                "incorrect_words": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "game_type"
            ]
        },
        "SaveQuestionResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "file": {
                    "type": "string"
                }
            }
        },
        "CreateFolderRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "parent_path": {
                    "type": "string"
                }
            },
            "required": [
                "name"
            ]
        },
        "CreateFolderResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "folder": {
                    "type": "object",
                    "properties": {
                        "name": {
                            "type": "string"
                        },
                        "path": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "RenameFolderRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "old_path": {
                    "type": "string"
                },
                "new_name": {
                    "type": "string"
                }
            },
            "required": [
                "old_path",
                "new_name"
            ]
        },
        "RenameFolderResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "new_path": {
                    "type": "string"
                }
            }
        },
        "FolderPathRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                }
            }
        },
        "QuestionFileRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "file": {
                    "type": "string"
                }
            },
            "required": [
                "file"
            ]
        },
        "MoveItemsRequest": {
            "type": "object",
            "properties": {
                "game_type": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "path": {
                                "type": "string"
                            },
                            "type": {
                                "type": "string"
                            }
                        }
                    }
                },
                "target_folder": {
                    "type": "string"
                }
            },
            "required": [
                "items"
            ]
        },
        "MoveItemsResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "moved_items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "from": {
                                "type": "string"
                            },
                            "to": {
                                "type": "string"
                            }
                        }
                    }
                },
                "skipped_items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "path": {
                                "type": "string"
                            },
                            "reason": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "ToggleCompletionResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "completed": {
                    "type": "boolean"
                }
            }
        },
        "FocusResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "focused_folder": {
                    "type": "string"
                }
            }
        },
        "TreeNode": {
            "type": "object",
            "properties": {
                "type": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "path": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "file": {
                    "type": "string"
                },
                "completed": {
                    "type": "boolean"
                },
                "children": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/TreeNode"
                    }
                }
            }
        },
        "Diagnosis": {
            "type": "object",
            "properties": {
                "error_type": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "possible_causes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "suggestions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "AuthenticateResponse": {
            "type": "object",
            "properties": {
                "authenticated": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "$ref": "#/definitions/Diagnosis"
                }
            }
        },
        "ConnectionResponse": {
            "type": "object",
            "properties": {
                "connected": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "error": {
                    "$ref": "#/definitions/Diagnosis"
                }
            }
        },
        "DecksResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "decks": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "error": {
                    "$ref": "#/definitions/Diagnosis"
                }
            }
        },
        "CardsResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "cards": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "cardId": {
                                "type": "integer"
                            },
                            "question": {
                                "type": "string"
                            },
                            "answer": {
                                "type": "string"
                            }
                        }
                    }
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "AnswerCardRequest": {
            "type": "object",
            "properties": {
                "cardId": {
                    "type": "integer"
                },
                "ease": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 4
                }
            },
            "required": [
                "cardId",
                "ease"
            ]
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Révijouer API",
	Description:      "Révijouer quiz and Anki bridge API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
