package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/services"
)

func TestTriggerSync(t *testing.T) {
	cases := []struct {
		name   string
		run    *domain.SyncRun
		err    error
		status int
		code   string
	}{
		{"succeeded", &domain.SyncRun{ID: "r1", Status: domain.SyncSucceeded, Fetched: 2}, nil, http.StatusOK, ""},
		{"busy", &domain.SyncRun{ID: "r2", Status: domain.SyncSkipped}, services.ErrSyncInProgress, http.StatusConflict, ErrCodeSyncInProgress},
		{"upstream", &domain.SyncRun{ID: "r3", Status: domain.SyncFailed}, apperr.RequestFailed("ATS", "Jobs"), http.StatusInternalServerError, ErrCodeUpstreamFailed},
		{"unconfigured", nil, services.ErrATSUnavailable, http.StatusServiceUnavailable, ErrCodeUnavailable},
		{"db", nil, errors.New("locked"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := stubSyncSvc(func(context.Context) (*domain.SyncRun, error) { return tc.run, tc.err })
			r := newTestRouter(New(nil, nil, nil, svc))

			w := do(t, r, http.MethodPost, "/admin/sync", nil, nil)
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.status, w.Body.String())
			}
			if tc.code != "" {
				if got := decodeError(t, w).Code; got != tc.code {
					t.Fatalf("code=%q want %q", got, tc.code)
				}
				return
			}
			var run domain.SyncRun
			if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil || run.ID != "r1" || run.Fetched != 2 {
				t.Fatalf("run=%+v err=%v", run, err)
			}
		})
	}
}
