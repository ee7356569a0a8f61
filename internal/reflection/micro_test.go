package reflection

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMicroValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Micro
		want error
	}{
		{"same drops reason", Micro{ActivityType: "club", MoodCompare: Same, Reason: "conflict"}, nil},
		{"better with positive reason", Micro{ActivityType: "study", MoodCompare: Better, Reason: "achievement"}, nil},
		{"worse needs reason", Micro{ActivityType: "intern", MoodCompare: Worse}, ErrReasonRequired},
		{"reason from wrong list", Micro{ActivityType: "intern", MoodCompare: Worse, Reason: "helping"}, ErrInvalid},
		{"unknown activity", Micro{ActivityType: "party", MoodCompare: Same}, ErrInvalid},
		{"unknown compare", Micro{ActivityType: "club", MoodCompare: "meh"}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	m := Micro{ActivityType: "club", MoodCompare: Same, Reason: "conflict"}
	require.NoError(t, m.Validate())
	assert.Empty(t, m.Reason)
}

func TestSubmitMicro(t *testing.T) {
	var calls atomic.Int32
	var body map[string]any
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reflections/micro", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"data":{"id":"m1","activity_type":"club","mood_compare":"better"}}`))
	})
	svc := NewService(client, nil, nil, nil, nil)

	created, err := svc.SubmitMicro(context.Background(), Micro{
		ActivityType: "club",
		Memo:         " 세션 발표 ",
		MoodCompare:  Better,
		Reason:       "communication",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", created.ID)

	assert.Equal(t, "세션 발표", body["memo"])
	assert.Equal(t, "communication", body["reason"])
	assert.Equal(t, []any{}, body["tags"])
	_, err = time.Parse(time.RFC3339, body["date"].(string))
	assert.NoError(t, err)
}

func TestSubmitMicroInvalidSendsNothing(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewService(client, nil, nil, nil, nil)

	_, err := svc.SubmitMicro(context.Background(), Micro{ActivityType: "club", MoodCompare: Worse})
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Zero(t, calls.Load())
}

func TestSubmitMicroFailure(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc := NewService(client, nil, nil, nil, nil)

	_, err := svc.SubmitMicro(context.Background(), Micro{ActivityType: "club", MoodCompare: Same})
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, MsgMicroSaveFailed, f.Msg)
}

func TestSuggestTagsFailureYieldsNone(t *testing.T) {
	var calls atomic.Int32
	fail := atomic.Bool{}
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/suggest-tags", r.URL.Path)
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"tags":["리더십","발표"]}`))
	})
	svc := NewService(client, nil, nil, nil, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"리더십", "발표"}, svc.SuggestTags(ctx, "club", "세션 진행"))
	fail.Store(true)
	assert.Nil(t, svc.SuggestTags(ctx, "club", "세션 진행"))
}

func TestListAndDeleteMicro(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/v1/reflections/micro", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"success":true,"data":{"logs":[{"id":"m1","memo":"a"},{"id":"m2","memo":"b"}]}}`))
		case http.MethodDelete:
			assert.Equal(t, "/api/v1/reflections/micro/m1", r.URL.Path)
			w.Write([]byte(`{"success":true}`))
		}
	})
	svc := NewService(client, nil, nil, nil, nil)
	ctx := context.Background()

	logs, err := svc.ListMicro(ctx, 100)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[1].Memo)

	require.NoError(t, svc.DeleteMicro(ctx, "m1"))
	assert.EqualValues(t, 2, calls.Load())
}
