package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YeYo-KuVo/numino/internal/puzzles"
	"github.com/YeYo-KuVo/numino/pkg/config"

	"github.com/gin-gonic/gin"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{
		SessionSecret: "test-secret-key-that-is-at-least-32-bytes",
		PuzzlesFile:   "",
	}
	RegisterRoutes(r, cfg)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err, "new request")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotNil(t, response["version"])
}

func TestConstructHandler(t *testing.T) {
	router := setupRouter()

	req := ConstructRequest{
		Rows:              4,
		Cols:              4,
		Numbers:           []int{1, 2, 3},
		Colors:            []string{"R", "G", "B"},
		Seed:              7,
		RequireAllNumbers: true,
		RequireAllColors:  true,
	}
	w := doJSON(t, router, "POST", "/api/construct", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp["solution"])
	assert.NotNil(t, resp["constraints"])
}

func TestConstructHandlerBadRequest(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, "POST", "/api/construct", map[string]interface{}{"rows": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConstructHandlerRejectsOutOfBoundsGrid(t *testing.T) {
	router := setupRouter()

	req := ConstructRequest{
		Rows:    1, // below constants.MinGridDim
		Cols:    4,
		Numbers: []int{1, 2, 3},
		Colors:  []string{"R", "G", "B"},
		Seed:    7,
	}
	w := doJSON(t, router, "POST", "/api/construct", req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestConstructHandlerRejectsTooFewColors(t *testing.T) {
	router := setupRouter()

	req := ConstructRequest{
		Rows:    4,
		Cols:    4,
		Numbers: []int{1, 2, 3},
		Colors:  []string{"R"}, // below constants.MinColors
		Seed:    7,
	}
	w := doJSON(t, router, "POST", "/api/construct", req)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestGenerateHandler(t *testing.T) {
	router := setupRouter()

	req := map[string]interface{}{
		"rows":    5,
		"cols":    5,
		"numbers": []int{1, 2, 3},
		"colors":  []string{"R", "G", "B"},
		"balance": "BALANCED",
		"seed":    int64(42),
	}
	w := doJSON(t, router, "POST", "/api/generate?include_solution=true", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp["id"])
	assert.NotNil(t, resp["token"])
	assert.NotNil(t, resp["solution"])
}

func TestGenerateHandlerWithholdsSolutionByDefault(t *testing.T) {
	router := setupRouter()

	req := map[string]interface{}{
		"rows":    5,
		"cols":    5,
		"numbers": []int{1, 2, 3},
		"colors":  []string{"R", "G", "B"},
		"balance": "BALANCED",
		"seed":    int64(43),
	}
	w := doJSON(t, router, "POST", "/api/generate", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["solution"], "solution must be withheld unless include_solution=true")
}

func TestPuzzleByIDRejectsMismatchedToken(t *testing.T) {
	router := setupRouter()
	entry := puzzles.PuzzleJSON{ID: "puzzle-xyz"}
	puzzles.SetGlobal(puzzles.NewLoaderFromPuzzles([]puzzles.PuzzleJSON{entry}))

	token, err := createToken("test-secret-key-that-is-at-least-32-bytes", CalibrationToken{
		PuzzleID:  "some-other-puzzle",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/puzzle/puzzle-xyz?token="+token, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPuzzleByIDNotFound(t *testing.T) {
	router := setupRouter()
	puzzles.SetGlobal(puzzles.NewLoaderFromPuzzles(nil))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/puzzle/does-not-exist", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
