package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Admissions API",
        "description": "Enquiry, admission and scholarship-test registration workflows for the school website.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Admin console login"},
        {"name": "Enquiries", "description": "Admission enquiry lifecycle"},
        {"name": "Admissions", "description": "Admission application lifecycle"},
        {"name": "Registrations", "description": "Scholarship-test (ATAT) registration lifecycle"},
        {"name": "Documents", "description": "Admit cards and approval letters"},
        {"name": "Uploads", "description": "Applicant attachments"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current administrator",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enquiries": {
            "post": {
                "tags": ["Enquiries"],
                "summary": "Submit a new admission enquiry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEnquiryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Enquiries"],
                "summary": "List enquiries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enquiries/verify": {
            "post": {
                "tags": ["Enquiries"],
                "summary": "Verify an enquiry number before admission",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyEnquiryRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verification outcome", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enquiries/{id}": {
            "get": {
                "tags": ["Enquiries"],
                "summary": "Get an enquiry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Enquiries"],
                "summary": "Delete an enquiry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Admissions still reference this enquiry"}
                }
            }
        },
        "/enquiries/{id}/status": {
            "put": {
                "tags": ["Enquiries"],
                "summary": "Update enquiry status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/admissions": {
            "post": {
                "tags": ["Admissions"],
                "summary": "Submit an admission application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAdmissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Enquiry not approved"},
                    "422": {"description": "Enquiry number not found"}
                }
            },
            "get": {
                "tags": ["Admissions"],
                "summary": "List admissions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "enquiryNumber", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admissions/export": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Export admissions as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/admissions/{id}": {
            "get": {
                "tags": ["Admissions"],
                "summary": "Get an admission with academics and siblings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admissions"],
                "summary": "Delete an admission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admissions/{id}/status": {
            "put": {
                "tags": ["Admissions"],
                "summary": "Update admission status and numbering",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAdmissionStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed or sequence exhausted"}
                }
            }
        },
        "/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Register for the scholarship admission test",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Registrations"],
                "summary": "List scholarship-test registrations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/registrations/export": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Export registrations as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/registrations/{id}": {
            "get": {
                "tags": ["Registrations"],
                "summary": "Get a registration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Registrations"],
                "summary": "Delete a registration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/registrations/{id}/status": {
            "put": {
                "tags": ["Registrations"],
                "summary": "Update registration status, rank and scholarship",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRegistrationStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/documents/generate": {
            "post": {
                "tags": ["Documents"],
                "summary": "Generate an admit card or admission approval letter",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateDocumentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signed download URL", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Record not approved"}
                }
            }
        },
        "/documents/download": {
            "get": {
                "tags": ["Documents"],
                "summary": "Download a generated document via signed token",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF payload"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        },
        "/uploads": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Upload an applicant attachment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Stored path", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "File too large"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "VerifyEnquiryRequest": {
            "type": "object",
            "properties": {
                "enquiry_number": {"type": "string"}
            },
            "required": ["enquiry_number"]
        },
        "CreateEnquiryRequest": {
            "type": "object",
            "properties": {
                "parent_name": {"type": "string"},
                "student_name": {"type": "string"},
                "class_applied": {"type": "string"},
                "mobile": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["parent_name", "student_name", "class_applied", "mobile"]
        },
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "notes": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateAdmissionRequest": {
            "type": "object",
            "properties": {
                "enquiry_number": {"type": "string"},
                "student_name": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date"},
                "gender": {"type": "string"},
                "category": {"type": "string", "enum": ["SC", "ST", "General", "Handicapped"]},
                "class_applied": {"type": "string"},
                "father_name": {"type": "string"},
                "father_occupation": {"type": "string"},
                "mother_name": {"type": "string"},
                "mother_occupation": {"type": "string"},
                "mobile": {"type": "string"},
                "email": {"type": "string"},
                "present_address": {"type": "string"},
                "permanent_address": {"type": "string"},
                "previous_school": {"type": "string"},
                "previous_class": {"type": "string"},
                "single_girl_child": {"type": "boolean"},
                "specially_abled": {"type": "boolean"},
                "ews": {"type": "boolean"},
                "photo_path": {"type": "string"},
                "birth_certificate_path": {"type": "string"},
                "academics": {"type": "array", "items": {"$ref": "#/definitions/AcademicRecordRequest"}},
                "siblings": {"type": "array", "items": {"$ref": "#/definitions/SiblingRequest"}}
            },
            "required": ["enquiry_number", "student_name", "date_of_birth", "gender", "category", "class_applied", "father_name", "mother_name", "mobile", "present_address", "photo_path", "birth_certificate_path"]
        },
        "AcademicRecordRequest": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "max_marks": {"type": "number"},
                "marks_obtained": {"type": "number"},
                "percentage": {"type": "number"},
                "remarks": {"type": "string"}
            },
            "required": ["subject", "max_marks"]
        },
        "SiblingRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "age": {"type": "integer"},
                "school": {"type": "string"}
            },
            "required": ["name"]
        },
        "UpdateAdmissionStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "reviewing", "approved", "rejected"]},
                "notes": {"type": "string"},
                "admission_no": {"type": "string"},
                "sl_no": {"type": "string"},
                "assign_number": {"type": "boolean"}
            },
            "required": ["status"]
        },
        "CreateRegistrationRequest": {
            "type": "object",
            "properties": {
                "student_name": {"type": "string"},
                "date_of_birth": {"type": "string", "format": "date"},
                "gender": {"type": "string"},
                "father_name": {"type": "string"},
                "mother_name": {"type": "string"},
                "mobile": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "class_applied": {"type": "string"},
                "present_school": {"type": "string"},
                "test_date": {"type": "string", "format": "date"},
                "test_venue": {"type": "string"},
                "test_time": {"type": "string"},
                "photo_path": {"type": "string"}
            },
            "required": ["student_name", "date_of_birth", "gender", "father_name", "mother_name", "mobile", "address", "class_applied", "test_date", "photo_path"]
        },
        "UpdateRegistrationStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "notes": {"type": "string"},
                "rank": {"type": "integer"},
                "scholarship_percentage": {"type": "number"}
            },
            "required": ["status"]
        },
        "GenerateDocumentRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["admit_card", "admission_letter"]},
                "id": {"type": "string"}
            },
            "required": ["type", "id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
