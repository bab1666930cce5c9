// Copyright (c) 2026 Punchline. All rights reserved.

/*
HTTP delivery layer for the joke domain.

The handler is the action orchestrator's outer edge: it resolves transport
concerns (form decoding, the _method override marker, redirects) and calls
into [Service] for everything with business meaning.

# Flow ordering

For creation, authentication is required BEFORE validation: an anonymous
submission with invalid fields redirects to login and never reports field
errors. For deletion, the method-override marker is checked before anything
else, matching the submission contract.
*/
package joke

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/punchline-app/punchline/internal/platform/apperr"
	"github.com/punchline-app/punchline/internal/platform/constants"
	requestutil "github.com/punchline-app/punchline/internal/platform/request"
	"github.com/punchline-app/punchline/internal/platform/respond"
)

// Handler implements the joke HTTP endpoints.
type Handler struct {
	jokeService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{jokeService: service}
}

// Routes returns a [chi.Router] configured with the joke routes.
//
// # Endpoints
//   - GET  /          : Shared list, 5 most recent jokes, newest first.
//   - POST /          : Create a joke (authenticated).
//   - GET  /{jokeID}  : Single joke view with the advisory is_owner flag.
//   - POST /{jokeID}  : Form mutation; only _method=delete is supported.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{jokeID}", handler.get)
	router.Post("/{jokeID}", handler.mutate)

	return router
}

/*
list serves the shared joke list.

GET /jokes

Response:
  - 200: []ListItem: Up to 5 most recent jokes, newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.jokeService.ListRecent(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
get serves the single joke view.

GET /jokes/{jokeID}

Identity is resolved softly: anonymous viewers see the joke with
is_owner=false. The flag only drives the client's delete affordance.

Response:
  - 200: Detail: Joke plus the advisory is_owner flag
  - 404: NotFound: No such joke
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	jokeID := requestutil.Param(request, "jokeID")
	viewerID := requestutil.Identity(request)

	detail, err := handler.jokeService.Get(request.Context(), jokeID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
create handles a new joke submission.

POST /jokes (form fields: name, content)

Pipeline: require identity → decode typed submission → validate → persist →
redirect to the new joke's detail view. An anonymous request is redirected
to login before the form is even decoded.

Response:
  - 303: Redirect to /jokes/{id} on success, or to /login when anonymous
  - 400: VALIDATION_ERROR: Field errors plus echoed field values
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequireIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fields, err := requestutil.Form(request, FieldName, FieldContent)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.jokeService.Create(request.Context(), ownerID, CreateInput{
		Name:    fields[FieldName],
		Content: fields[FieldContent],
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Redirect(writer, request, constants.JokesPath+"/"+record.ID)
}

/*
mutate dispatches a form mutation on a single joke.

POST /jokes/{jokeID} (form field: _method)

Only the "delete" override marker is supported; anything else — including a
missing marker — is rejected with UNSUPPORTED_METHOD before identity is even
considered.

Pipeline for delete: marker check → require identity → existence check →
ownership gate → delete → redirect to the list.

Response:
  - 303: Redirect to /jokes on success, or to /login when anonymous
  - 400: UNSUPPORTED_METHOD: Unrecognized _method marker
  - 403: FORBIDDEN: Requester does not own the joke
  - 404: NOT_FOUND: No such joke
*/
func (handler *Handler) mutate(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Form not submitted correctly"))
		return
	}

	if marker := request.PostForm.Get(FieldMethod); marker != MethodDelete {
		respond.Error(writer, request, apperr.UnsupportedMethod(marker))
		return
	}

	requesterID, err := requestutil.RequireIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	jokeID := requestutil.Param(request, "jokeID")
	if err := handler.jokeService.Delete(request.Context(), jokeID, requesterID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Redirect(writer, request, constants.JokesPath)
}
