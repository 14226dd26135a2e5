package workspace_test

import (
	"bytes"
	"easylog/bizerror"
	"easylog/domain/record"
	"easylog/session"
	"easylog/testinfra"
	"easylog/workspace"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func setupWorkspaceRouter() *gin.Engine {
	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	workspace.RegisterWorkspaceRestAPI(router, session.SimpleAuthFilter())
	return router
}

func httpRequest(method, path string, body io.Reader) *http.Request {
	req, err := http.NewRequest(method, path, body)
	Expect(err).To(BeNil())
	return req
}

func TestWorkspaceRestAPISecurity(t *testing.T) {
	RegisterTestingT(t)
	router := setupWorkspaceRouter()

	t.Run("all workspace resources demand a signed-in session", func(t *testing.T) {
		for _, req := range []*http.Request{
			httpRequest(http.MethodGet, workspace.PathWorkRecords, nil),
			httpRequest(http.MethodGet, workspace.PathStagingRecords, nil),
			httpRequest(http.MethodPost, workspace.PathStagingRecords+"/commits", nil),
		} {
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
		}
	})
}

func TestStagingRecordsRestAPI(t *testing.T) {
	RegisterTestingT(t)
	defer restoreGatewayFuncs()
	router := setupWorkspaceRouter()

	record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
		return []record.WorkRecord{}, nil
	}

	t.Run("stage, list and unstage a pending record", func(t *testing.T) {
		defer workspace.CloseWorkspace("stage rest tester")
		_, cookie := testinfra.SignIn("stage rest tester")

		req := httpRequest(http.MethodPost, workspace.PathStagingRecords, bytes.NewReader([]byte(
			`{"date":"2024-01-15","department":"圖服","eventType":"會議","description":"weekly sync","hours":1.37}`)))
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))

		staged := workspace.StagedRecord{}
		Expect(json.Unmarshal([]byte(body), &staged)).To(BeNil())
		Expect(staged.TempID).To(HavePrefix("temp-"))
		Expect(staged.Status).To(Equal(workspace.CommitStatusPending))
		Expect(staged.Creation.Hours).To(Equal(1.25))

		req = httpRequest(http.MethodGet, workspace.PathStagingRecords, nil)
		req.AddCookie(cookie)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		list := []workspace.StagedRecord{}
		Expect(json.Unmarshal([]byte(body), &list)).To(BeNil())
		Expect(list).To(Equal([]workspace.StagedRecord{staged}))

		req = httpRequest(http.MethodDelete, workspace.PathStagingRecords+"/"+staged.TempID, nil)
		req.AddCookie(cookie)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
	})

	t.Run("unstage of an unknown temp id is 404", func(t *testing.T) {
		defer workspace.CloseWorkspace("unstage rest tester")
		_, cookie := testinfra.SignIn("unstage rest tester")

		req := httpRequest(http.MethodDelete, workspace.PathStagingRecords+"/temp-unknown", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"workspace.staged_record_not_found","message":"staged record not found","data":null}`))
	})

	t.Run("staging with a malformed payload is 400", func(t *testing.T) {
		defer workspace.CloseWorkspace("bad payload tester")
		_, cookie := testinfra.SignIn("bad payload tester")

		req := httpRequest(http.MethodPost, workspace.PathStagingRecords, bytes.NewReader([]byte(
			`{"department":"圖服","eventType":"會議","description":"missing date","hours":1}`)))
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
	})

	t.Run("staging a record that breaks an invariant is 400", func(t *testing.T) {
		defer workspace.CloseWorkspace("invalid record tester")
		_, cookie := testinfra.SignIn("invalid record tester")

		req := httpRequest(http.MethodPost, workspace.PathStagingRecords, bytes.NewReader([]byte(
			`{"date":"2024-01-15","department":"no-such-dept","eventType":"會議","description":"x","hours":1}`)))
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"record.invalid","message":"unknown department: no-such-dept","data":null}`))
	})
}

func TestCommitStagedRestAPI(t *testing.T) {
	RegisterTestingT(t)
	defer restoreGatewayFuncs()
	router := setupWorkspaceRouter()

	stageOne := func(cookie *http.Cookie, description string) {
		req := httpRequest(http.MethodPost, workspace.PathStagingRecords, bytes.NewReader([]byte(
			`{"date":"2024-01-15","department":"圖服","eventType":"會議","description":"`+description+`","hours":1}`)))
		req.AddCookie(cookie)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
	}

	t.Run("a successful commit reports the batch and clears staging", func(t *testing.T) {
		defer workspace.CloseWorkspace("commit rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return []record.WorkRecord{}, nil
		}
		_, cookie := testinfra.SignIn("commit rest tester")
		stageOne(cookie, "one")
		stageOne(cookie, "two")

		record.CreateWorkRecordFunc = func(c record.WorkRecordCreation, owner string) (*record.WorkRecord, error) {
			return &record.WorkRecord{ID: types.ID(1), Description: c.Description}, nil
		}

		req := httpRequest(http.MethodPost, workspace.PathStagingRecords+"/commits", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"total":2,"committed":2,"ledger":[]}`))

		req = httpRequest(http.MethodGet, workspace.PathStagingRecords, nil)
		req.AddCookie(cookie)
		_, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(body).To(MatchJSON(`[]`))
	})

	t.Run("an aborted commit is 502 and carries the ledger", func(t *testing.T) {
		defer workspace.CloseWorkspace("failed commit rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return []record.WorkRecord{}, nil
		}
		_, cookie := testinfra.SignIn("failed commit rest tester")
		stageOne(cookie, "doomed")

		record.CreateWorkRecordFunc = func(c record.WorkRecordCreation, owner string) (*record.WorkRecord, error) {
			return nil, &bizerror.ErrStore{Cause: errors.New("connection reset")}
		}

		req := httpRequest(http.MethodPost, workspace.PathStagingRecords+"/commits", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadGateway))
		Expect(body).To(ContainSubstring(`"code":"workspace.batch_commit_failed"`))

		errorBody := struct {
			Data []workspace.StagedRecord `json:"data"`
		}{}
		Expect(json.Unmarshal([]byte(body), &errorBody)).To(BeNil())
		Expect(len(errorBody.Data)).To(Equal(1))
		Expect(errorBody.Data[0].Status).To(Equal(workspace.CommitStatusFailed))
		Expect(errorBody.Data[0].FailureReason).ToNot(BeEmpty())
	})
}

func TestWorkRecordsRestAPI(t *testing.T) {
	RegisterTestingT(t)
	defer restoreGatewayFuncs()
	router := setupWorkspaceRouter()

	committed := []record.WorkRecord{
		{ID: 2, Date: "2024-02-01", Department: "學發", EventType: "會議", Description: "newer", Hours: 2, UserName: "records rest tester"},
		{ID: 1, Date: "2024-01-15", Department: "圖服", EventType: "諮詢", Description: "older", Hours: 1, UserName: "records rest tester"},
	}

	t.Run("the committed view is served as-is", func(t *testing.T) {
		defer workspace.CloseWorkspace("records rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return append([]record.WorkRecord{}, committed...), nil
		}
		_, cookie := testinfra.SignIn("records rest tester")

		req := httpRequest(http.MethodGet, workspace.PathWorkRecords, nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		got := []record.WorkRecord{}
		Expect(json.Unmarshal([]byte(body), &got)).To(BeNil())
		Expect(got).To(Equal(committed))
	})

	t.Run("an update is confirmed with the stored record", func(t *testing.T) {
		defer workspace.CloseWorkspace("update rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return append([]record.WorkRecord{}, committed...), nil
		}
		record.UpdateWorkRecordFunc = func(r record.WorkRecord) error {
			return nil
		}
		_, cookie := testinfra.SignIn("update rest tester")

		req := httpRequest(http.MethodPut, workspace.PathWorkRecords+"/1", bytes.NewReader([]byte(
			`{"date":"2024-03-01","department":"圖服","eventType":"諮詢","description":"edited","hours":2.5}`)))
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		result := workspace.MutationResult{}
		Expect(json.Unmarshal([]byte(body), &result)).To(BeNil())
		Expect(result.State).To(Equal(workspace.MutationStateConfirmed))
		Expect(result.Record.Description).To(Equal("edited"))
		Expect(result.Record.Hours).To(Equal(2.5))
	})

	t.Run("a rolled-back update is surfaced with its terminal state", func(t *testing.T) {
		defer workspace.CloseWorkspace("rollback rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return append([]record.WorkRecord{}, committed...), nil
		}
		record.UpdateWorkRecordFunc = func(r record.WorkRecord) error {
			return &bizerror.ErrStore{Cause: errors.New("timeout")}
		}
		_, cookie := testinfra.SignIn("rollback rest tester")

		req := httpRequest(http.MethodPut, workspace.PathWorkRecords+"/1", bytes.NewReader([]byte(
			`{"date":"2024-03-01","department":"圖服","eventType":"諮詢","description":"edited","hours":2.5}`)))
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadGateway))
		Expect(body).To(ContainSubstring(`"code":"workspace.mutation_rolled_back"`))
		Expect(body).To(ContainSubstring(`"state":"ROLLED_BACK"`))
	})

	t.Run("a delete is confirmed without a record payload", func(t *testing.T) {
		defer workspace.CloseWorkspace("delete rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return append([]record.WorkRecord{}, committed...), nil
		}
		record.DeleteWorkRecordFunc = func(id types.ID, owner string) error {
			return nil
		}
		_, cookie := testinfra.SignIn("delete rest tester")

		req := httpRequest(http.MethodDelete, workspace.PathWorkRecords+"/2", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"state":"CONFIRMED"}`))
	})

	t.Run("a malformed record id is 400", func(t *testing.T) {
		defer workspace.CloseWorkspace("bad id tester")
		_, cookie := testinfra.SignIn("bad id tester")

		req := httpRequest(http.MethodDelete, workspace.PathWorkRecords+"/abc", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring(`"code":"common.bad_param"`))
	})

	t.Run("a mutation on an unknown id is 404", func(t *testing.T) {
		defer workspace.CloseWorkspace("missing rest tester")
		record.QueryWorkRecordsFunc = func(owner string) ([]record.WorkRecord, error) {
			return []record.WorkRecord{}, nil
		}
		_, cookie := testinfra.SignIn("missing rest tester")

		req := httpRequest(http.MethodDelete, workspace.PathWorkRecords+"/999", nil)
		req.AddCookie(cookie)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
	})
}
