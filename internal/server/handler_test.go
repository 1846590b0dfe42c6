package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
	"alchemist-backend/internal/priority"
	"alchemist-backend/internal/rules"
)

func testApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()
	schemas := metadata.NewRegistry()
	schemas.Load(metadata.Defaults())
	h := NewHandler(entity.NewStore(), schemas, rules.NewStore(), priority.NewStore(), 1000)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *AppError
			if isAppError(err, &appErr) {
				return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
			}
			return c.Status(500).JSON(ErrorResponse{Error: NewAppError("INTERNAL_ERROR", 500, err.Error())})
		},
	})
	RegisterRoutes(app, h)
	return app, h
}

func isAppError(err error, target **AppError) bool {
	if appErr, ok := err.(*AppError); ok {
		*target = appErr
		return true
	}
	return false
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("invalid JSON response from %s %s: %v (%s)", method, path, err, raw)
		}
	}
	return resp, parsed
}

func TestPutDataset_UnknownKind(t *testing.T) {
	app, _ := testApp(t)
	resp, body := doJSON(t, app, "PUT", "/api/datasets/spaceships", `{"rows":[]}`)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "UNKNOWN_KIND" {
		t.Fatalf("expected UNKNOWN_KIND, got %v", errObj["code"])
	}
}

func TestPutDataset_KindSynonymInPath(t *testing.T) {
	app, h := testApp(t)
	resp, _ := doJSON(t, app, "PUT", "/api/datasets/employees", `{"rows":[{"WorkerID":"W1"}]}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if e := h.datasets.Get(metadata.KindWorkers); e == nil || len(e.Rows) != 1 {
		t.Fatal("expected worker dataset stored under canonical kind")
	}
}

func TestValidateEndpoint(t *testing.T) {
	app, _ := testApp(t)

	put := `{"rows":[
		{"ClientID":"C1","ClientName":"Acme","PriorityLevel":"9","RequestedTaskIDs":"","GroupTag":"a","AttributesJSON":"{}"}
	]}`
	if resp, _ := doJSON(t, app, "PUT", "/api/datasets/clients", put); resp.StatusCode != 200 {
		t.Fatalf("put failed: %d", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/validate", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	summary := data["summary"].([]any)
	if len(summary) != 1 {
		t.Fatalf("expected one dataset summary, got %d", len(summary))
	}
	first := summary[0].(map[string]any)
	if first["errors"].(float64) != 1 {
		t.Fatalf("expected 1 error (PriorityLevel=9), got %v", first["errors"])
	}
}

func TestQueryEndpoint(t *testing.T) {
	app, _ := testApp(t)
	put := `{"rows":[
		{"WorkerID":"W1","Skills":"golang,sql,python,terraform"},
		{"WorkerID":"W2","Skills":"java"}
	]}`
	doJSON(t, app, "PUT", "/api/datasets/workers", put)

	resp, body := doJSON(t, app, "POST", "/api/query", `{"text":"workers with skills more than 3"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	rows := data["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0].(map[string]any)
	if row["WorkerID"] != "W1" || row["_kind"] != "workers" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestQueryEndpoint_RequiresText(t *testing.T) {
	app, _ := testApp(t)
	resp, _ := doJSON(t, app, "POST", "/api/query", `{}`)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422 for missing text, got %d", resp.StatusCode)
	}
}

func TestRuleLifecycle(t *testing.T) {
	app, _ := testApp(t)

	// Interpret returns a skeleton but stores nothing.
	resp, body := doJSON(t, app, "POST", "/api/rules/interpret", `{"text":"run T1 and T2 together"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("interpret failed: %d", resp.StatusCode)
	}
	skeleton := body["data"].(map[string]any)
	if skeleton["kind"] != rules.KindCoRun {
		t.Fatalf("expected coRun skeleton, got %v", skeleton["kind"])
	}

	// Create
	resp, body = doJSON(t, app, "POST", "/api/rules", `{"kind":"coRun","name":"pair","description":"run together","parameters":{"tasks":["T1","T2"]}}`)
	if resp.StatusCode != 201 {
		t.Fatalf("create failed: %d", resp.StatusCode)
	}
	id := body["data"].(map[string]any)["id"].(string)
	if id == "" {
		t.Fatal("expected assigned rule ID")
	}

	// List
	_, body = doJSON(t, app, "GET", "/api/rules", "")
	if got := len(body["data"].([]any)); got != 1 {
		t.Fatalf("expected 1 rule, got %d", got)
	}

	// Delete
	if resp, _ := doJSON(t, app, "DELETE", "/api/rules/"+id, ""); resp.StatusCode != 200 {
		t.Fatalf("delete failed: %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, app, "GET", "/api/rules/"+id, ""); resp.StatusCode != 404 {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestCreateRule_RejectsBadExpression(t *testing.T) {
	app, _ := testApp(t)
	resp, body := doJSON(t, app, "POST", "/api/rules", `{"kind":"patternMatch","name":"x","parameters":{"expression":"record.Duration >"}}`)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", errObj["code"])
	}
}

func TestCreateRule_RejectsUnknownKind(t *testing.T) {
	app, _ := testApp(t)
	resp, _ := doJSON(t, app, "POST", "/api/rules", `{"kind":"teleport","name":"x"}`)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestPriorities_RoundTrip(t *testing.T) {
	app, _ := testApp(t)

	_, body := doJSON(t, app, "GET", "/api/priorities", "")
	weights := body["data"].(map[string]any)
	if weights["fairness"].(float64) != 50 {
		t.Fatalf("expected default fairness=50, got %v", weights["fairness"])
	}

	resp, _ := doJSON(t, app, "PUT", "/api/priorities", `{"fairness":80,"deadline":20}`)
	if resp.StatusCode != 200 {
		t.Fatalf("put priorities failed: %d", resp.StatusCode)
	}
	_, body = doJSON(t, app, "GET", "/api/priorities", "")
	weights = body["data"].(map[string]any)
	if weights["fairness"].(float64) != 80 {
		t.Fatalf("expected fairness=80, got %v", weights["fairness"])
	}

	// Unknown criteria and out-of-range weights are rejected.
	if resp, _ := doJSON(t, app, "PUT", "/api/priorities", `{"vibes":10}`); resp.StatusCode != 422 {
		t.Fatalf("expected 422 for unknown criteria, got %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, app, "PUT", "/api/priorities", `{"fairness":180}`); resp.StatusCode != 422 {
		t.Fatalf("expected 422 for out-of-range weight, got %d", resp.StatusCode)
	}
}

func TestPutDataset_RowLimit(t *testing.T) {
	schemas := metadata.NewRegistry()
	schemas.Load(metadata.Defaults())
	h := NewHandler(entity.NewStore(), schemas, rules.NewStore(), priority.NewStore(), 1)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *AppError
			if isAppError(err, &appErr) {
				return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
			}
			return c.Status(500).SendString(err.Error())
		},
	})
	RegisterRoutes(app, h)

	resp, _ := doJSON(t, app, "PUT", "/api/datasets/clients", `{"rows":[{"ClientID":"C1"},{"ClientID":"C2"}]}`)
	if resp.StatusCode != 413 {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}
