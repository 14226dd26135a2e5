package eventtype_test

import (
	"bytes"
	"easylog/bizerror"
	"easylog/domain/eventtype"
	"easylog/session"
	"easylog/testinfra"
	"net/http"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func setupEventTypesRouter() *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	eventtype.RegisterEventTypesRestAPI(router, session.SimpleAuthFilter())
	return router
}

func restoreEventTypeFuncs() {
	eventtype.CreateEventTypeFunc = eventtype.CreateEventType
	eventtype.QueryEventTypesFunc = eventtype.QueryEventTypes
	eventtype.DeleteEventTypeFunc = eventtype.DeleteEventType
}

func TestEventTypesRestAPI(t *testing.T) {
	RegisterTestingT(t)
	defer restoreEventTypeFuncs()
	router := setupEventTypesRouter()

	t.Run("event-type resources demand a signed-in session", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, eventtype.PathEventTypes, nil)
		Expect(err).To(BeNil())
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
	})

	t.Run("labels are listed for the session owner, defaults first", func(t *testing.T) {
		eventtype.QueryEventTypesFunc = func(secCtx *session.Session) ([]eventtype.EventTypeDefinition, error) {
			Expect(secCtx.Identity.Name).To(Equal("ann"))
			return append(eventtype.DefaultEventTypes(),
				eventtype.EventTypeDefinition{ID: 20, Name: "專案", UserName: "ann"}), nil
		}
		_, cookie := testinfra.SignIn("ann")

		req, err := http.NewRequest(http.MethodGet, eventtype.PathEventTypes, nil)
		Expect(err).To(BeNil())
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"name":"會議"`))
		Expect(body).To(ContainSubstring(`"isDefault":true`))
		Expect(body).To(ContainSubstring(`"name":"專案"`))
	})

	t.Run("a label is created from the request body", func(t *testing.T) {
		eventtype.CreateEventTypeFunc = func(creation eventtype.EventTypeCreation, secCtx *session.Session) (*eventtype.EventTypeDefinition, error) {
			Expect(creation.Name).To(Equal("專案"))
			return &eventtype.EventTypeDefinition{ID: 21, Name: creation.Name, UserName: secCtx.Identity.Name}, nil
		}
		_, cookie := testinfra.SignIn("bob")

		req, err := http.NewRequest(http.MethodPost, eventtype.PathEventTypes,
			bytes.NewReader([]byte(`{"name":"專案"}`)))
		Expect(err).To(BeNil())
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"id":"21"`))
	})

	t.Run("a duplicated label is 400", func(t *testing.T) {
		eventtype.CreateEventTypeFunc = func(creation eventtype.EventTypeCreation, secCtx *session.Session) (*eventtype.EventTypeDefinition, error) {
			return nil, bizerror.ErrEventTypeExisted
		}
		_, cookie := testinfra.SignIn("carol")

		req, err := http.NewRequest(http.MethodPost, eventtype.PathEventTypes,
			bytes.NewReader([]byte(`{"name":"會議"}`)))
		Expect(err).To(BeNil())
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"settings.event_type_existed","message":"event type existed","data":null}`))
	})

	t.Run("a label is deleted by id", func(t *testing.T) {
		deleted := types.ID(0)
		eventtype.DeleteEventTypeFunc = func(id types.ID, secCtx *session.Session) error {
			deleted = id
			return nil
		}
		_, cookie := testinfra.SignIn("dave")

		req, err := http.NewRequest(http.MethodDelete, eventtype.PathEventTypes+"/22", nil)
		Expect(err).To(BeNil())
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
		Expect(deleted).To(Equal(types.ID(22)))
	})
}
