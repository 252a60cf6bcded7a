package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/zxxx98/small-garden/internal/auth"
	"github.com/zxxx98/small-garden/internal/db"
	"github.com/zxxx98/small-garden/internal/garden"
	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/schedule"
	"github.com/zxxx98/small-garden/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	svc := garden.New(database)
	router := NewRouter(database, svc, testJWTSecret)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Test invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// The revoked token no longer authenticates.
	req, _ = authRequest("GET", server.URL+"/api/plants", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPlantsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create a plant with an initial reminder.
	req, _ := authRequest("POST", server.URL+"/api/plants", token, model.Plant{
		Name: "Monstera",
		Type: "houseplant",
		Todos: []model.Todo{
			{ActionName: "Water", IsRecurring: true,
				RecurringUnit: model.UnitDay, RecurringInterval: 3,
				NextRemindTime: time.Now().UnixMilli()},
		},
	})
	var created model.Plant
	doJSON(t, req, http.StatusCreated, &created)
	if created.ID == "" {
		t.Fatal("expected generated plant id")
	}

	// Fetch the detail view.
	req, _ = authRequest("GET", server.URL+"/api/plants/"+created.ID, token, nil)
	var detail struct {
		Plant      model.Plant   `json:"plant"`
		LastAction *model.Action `json:"last_action"`
		NextTodo   *model.Todo   `json:"next_todo"`
	}
	doJSON(t, req, http.StatusOK, &detail)
	if detail.Plant.Name != "Monstera" {
		t.Errorf("expected Monstera, got %q", detail.Plant.Name)
	}
	if detail.LastAction != nil {
		t.Errorf("expected no actions yet, got %+v", detail.LastAction)
	}
	if detail.NextTodo == nil || detail.NextTodo.ActionName != "Water" {
		t.Errorf("expected Water as next todo, got %+v", detail.NextTodo)
	}

	// Move it to the cemetery and check the filter.
	req, _ = authRequest("PUT", server.URL+"/api/plants/"+created.ID+"/cemetery", token,
		map[string]bool{"is_dead": true})
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/plants?dead=true", token, nil)
	var cemetery []model.Plant
	doJSON(t, req, http.StatusOK, &cemetery)
	if len(cemetery) != 1 || cemetery[0].ID != created.ID {
		t.Errorf("expected the plant in the cemetery, got %+v", cemetery)
	}

	// Delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/plants/"+created.ID, token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/plants/"+created.ID, token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for deleted plant, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTodoEndpoints(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/plants", token, model.Plant{Name: "Basil"})
	var plant model.Plant
	doJSON(t, req, http.StatusCreated, &plant)

	// Add a reminder, then add again for the same action: upsert.
	todo := model.Todo{ActionName: "Water", NextRemindTime: 100}
	req, _ = authRequest("PUT", server.URL+"/api/plants/"+plant.ID+"/todos", token, todo)
	doJSON(t, req, http.StatusOK, nil)

	todo.NextRemindTime = 900
	req, _ = authRequest("PUT", server.URL+"/api/plants/"+plant.ID+"/todos", token, todo)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/plants/"+plant.ID, token, nil)
	var detail struct {
		Plant model.Plant `json:"plant"`
	}
	doJSON(t, req, http.StatusOK, &detail)
	if len(detail.Plant.Todos) != 1 || detail.Plant.Todos[0].NextRemindTime != 900 {
		t.Errorf("expected single upserted todo, got %+v", detail.Plant.Todos)
	}

	// Updating a reminder that is not there is a 404.
	req, _ = authRequest("PUT", server.URL+"/api/plants/"+plant.ID+"/todos/Spray", token,
		model.Todo{NextRemindTime: 100})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 updating missing todo, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Delete the one that exists.
	req, _ = authRequest("DELETE", server.URL+"/api/plants/"+plant.ID+"/todos/Water", token, nil)
	doJSON(t, req, http.StatusOK, nil)
}

func TestActionCompletionFlow(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/plants", token, model.Plant{
		Name: "Cactus",
		Todos: []model.Todo{
			{ActionName: "Repot", NextRemindTime: time.Now().UnixMilli()},
		},
	})
	var plant model.Plant
	doJSON(t, req, http.StatusCreated, &plant)

	// The reminder shows up in today's bucket.
	req, _ = authRequest("GET", server.URL+"/api/reminders/upcoming", token, nil)
	var buckets schedule.Buckets
	doJSON(t, req, http.StatusOK, &buckets)
	if len(buckets.Today) != 1 {
		t.Fatalf("expected 1 reminder today, got %+v", buckets)
	}

	// Logging the action consumes the one-shot reminder.
	req, _ = authRequest("POST", server.URL+"/api/actions", token, model.Action{
		Name: "Repot", PlantID: plant.ID,
	})
	var logged model.Action
	doJSON(t, req, http.StatusCreated, &logged)
	if logged.ID == "" {
		t.Error("expected generated action id")
	}

	req, _ = authRequest("GET", server.URL+"/api/reminders/upcoming", token, nil)
	buckets = schedule.Buckets{}
	doJSON(t, req, http.StatusOK, &buckets)
	if len(buckets.Today) != 0 {
		t.Errorf("consumed reminder still listed: %+v", buckets.Today)
	}

	// The action is in the plant's care log.
	req, _ = authRequest("GET", server.URL+"/api/plants/"+plant.ID+"/actions", token, nil)
	var actions []model.Action
	doJSON(t, req, http.StatusOK, &actions)
	if len(actions) != 1 || actions[0].Name != "Repot" {
		t.Errorf("expected the logged action, got %+v", actions)
	}
}

func TestActionSeriesEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/plants", token, model.Plant{Name: "Fern"})
	var plant model.Plant
	doJSON(t, req, http.StatusCreated, &plant)

	req, _ = authRequest("POST", server.URL+"/api/actions/series", token, map[string]any{
		"action":        model.Action{Name: "Water", PlantID: plant.ID},
		"interval_days": 3,
		"period_days":   10,
	})
	var series []model.Action
	doJSON(t, req, http.StatusCreated, &series)
	if len(series) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(series))
	}

	req, _ = authRequest("GET", server.URL+"/api/actions?plant_id="+plant.ID, token, nil)
	var actions []model.Action
	doJSON(t, req, http.StatusOK, &actions)
	if len(actions) != 4 {
		t.Errorf("expected 4 persisted actions, got %d", len(actions))
	}
}

func TestActionTypesEndpoints(t *testing.T) {
	server, token := setupTestServer(t)

	// Seeded system types exist.
	req, _ := authRequest("GET", server.URL+"/api/action-types", token, nil)
	var types []model.ActionType
	doJSON(t, req, http.StatusOK, &types)
	if len(types) < 5 {
		t.Fatalf("expected seeded types, got %d", len(types))
	}

	// Deleting a system type is forbidden.
	req, _ = authRequest("DELETE", server.URL+"/api/action-types/Water", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 deleting system type, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Custom types can be created once and deleted.
	custom := model.ActionType{Name: "Mist", Color: "#00FF00"}
	req, _ = authRequest("POST", server.URL+"/api/action-types", token, custom)
	doJSON(t, req, http.StatusCreated, nil)

	req, _ = authRequest("POST", server.URL+"/api/action-types", token, custom)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate type, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/action-types/Mist", token, nil)
	doJSON(t, req, http.StatusOK, nil)
}

func TestAreasEndpoints(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/areas", token, map[string]string{"name": "Balcony"})
	var area model.Area
	doJSON(t, req, http.StatusCreated, &area)
	if area.ID == "" || area.Name != "Balcony" {
		t.Fatalf("unexpected area: %+v", area)
	}

	req, _ = authRequest("GET", server.URL+"/api/areas", token, nil)
	var areas []model.Area
	doJSON(t, req, http.StatusOK, &areas)
	if len(areas) != 1 {
		t.Errorf("expected 1 area, got %d", len(areas))
	}

	req, _ = authRequest("DELETE", server.URL+"/api/areas/"+area.ID, token, nil)
	doJSON(t, req, http.StatusOK, nil)
}

func TestBatchDeletePlants(t *testing.T) {
	server, token := setupTestServer(t)

	var ids []string
	for i := 0; i < 3; i++ {
		req, _ := authRequest("POST", server.URL+"/api/plants", token,
			model.Plant{Name: fmt.Sprintf("Plant %d", i)})
		var p model.Plant
		doJSON(t, req, http.StatusCreated, &p)
		ids = append(ids, p.ID)
	}

	req, _ := authRequest("POST", server.URL+"/api/plants/batch-delete", token,
		map[string][]string{"ids": ids[:2]})
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/plants", token, nil)
	var remaining []model.Plant
	doJSON(t, req, http.StatusOK, &remaining)
	if len(remaining) != 1 || remaining[0].ID != ids[2] {
		t.Errorf("expected only the third plant, got %+v", remaining)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	svc := garden.New(database)
	server := httptest.NewServer(NewRouter(database, svc, testJWTSecret))
	t.Cleanup(server.Close)

	resp, _ := http.Get(server.URL + "/api/plants")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	database := db.NewTestDB(t)
	svc := garden.New(database)
	server := httptest.NewServer(NewRouter(database, svc, testJWTSecret))
	t.Cleanup(server.Close)

	// Create a regular member.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "member1", string(hash), model.RoleMember)

	memberToken, _ := auth.GenerateToken(testJWTSecret, 1, "member1", model.RoleMember)

	// Members manage plants freely.
	req, _ := authRequest("POST", server.URL+"/api/plants", memberToken, model.Plant{Name: "Ivy"})
	doJSON(t, req, http.StatusCreated, nil)

	// But user administration is admin only.
	req, _ = authRequest("GET", server.URL+"/api/users", memberToken, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for member accessing users, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
