package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"todo_webapp/internal/client"
	"todo_webapp/internal/domain"
	httpserver "todo_webapp/internal/http"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"
)

func applyMigrationsToPool(t *testing.T, dbp *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := dbp.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func mustCreateUser(t *testing.T, ur *repository.UserRepository, username string) *domain.User {
	t.Helper()
	ctx := context.Background()

	u, err := ur.GetByUsername(ctx, username)
	if err == nil {
		return u
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("integration-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u = &domain.User{Username: username, FirstName: "Test", PasswordHash: string(hash)}
	if err := ur.Create(ctx, u); err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return res
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func TestE2E_TaskFeed(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	os.Setenv("JWT_SECRET", "test-secret")

	dbp, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer dbp.Close()

	applyMigrationsToPool(t, dbp)

	ur := repository.NewUserRepository(dbp)
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	alice := mustCreateUser(t, ur, "alice_"+suffix)
	bob := mustCreateUser(t, ur, "bob_"+suffix)

	service.InitJWT()
	tokenAlice, err := service.GenerateJWT(alice.ID)
	if err != nil {
		t.Fatalf("gen token alice: %v", err)
	}
	tokenBob, err := service.GenerateJWT(bob.ID)
	if err != nil {
		t.Fatalf("gen token bob: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	httpserver.RegisterRoutes(r, dbp, "test", nil)
	ts := httptest.NewServer(r)
	defer ts.Close()

	wsBase := strings.Replace(ts.URL, "http", "ws", 1)
	ctx := context.Background()

	feedAlice, err := client.Dial(ctx, wsBase, tokenAlice)
	if err != nil {
		t.Fatalf("dial alice: %v", err)
	}
	defer feedAlice.Close()

	feedBob, err := client.Dial(ctx, wsBase, tokenBob)
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer feedBob.Close()

	feedAnon, err := client.Dial(ctx, wsBase, "")
	if err != nil {
		t.Fatalf("dial anon: %v", err)
	}
	defer feedAnon.Close()

	for name, fc := range map[string]*client.FeedClient{"alice": feedAlice, "bob": feedBob, "anon": feedAnon} {
		select {
		case <-fc.Ready:
		case <-time.After(3 * time.Second):
			t.Fatalf("%s: no ready handshake", name)
		}
	}

	taskText := "Buy milk " + suffix
	findTask := func(fc *client.FeedClient) *domain.Task {
		for _, task := range fc.VM.Tasks() {
			if task.Text == taskText {
				return task
			}
		}
		return nil
	}

	// unauthenticated insert fails and creates nothing
	res := doJSON(t, http.MethodPost, ts.URL+"/api/v1/tasks", "", `{"text":"`+taskText+`"}`)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous insert: expected 401, got %d", res.StatusCode)
	}

	// insert as alice reaches every subscriber, unchecked
	res = doJSON(t, http.MethodPost, ts.URL+"/api/v1/tasks", tokenAlice, `{"text":"`+taskText+`"}`)
	var created struct {
		Task domain.Task `json:"task"`
	}
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode insert response: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("insert: expected 200, got %d", res.StatusCode)
	}
	if created.Task.OwnerID != alice.ID || created.Task.Checked {
		t.Fatalf("insert: bad record %+v", created.Task)
	}

	waitFor(t, "task in all feeds", func() bool {
		return findTask(feedAlice) != nil && findTask(feedBob) != nil && findTask(feedAnon) != nil
	})
	if task := findTask(feedBob); task.Checked {
		t.Fatalf("bob sees task as checked right after insert")
	}

	taskURL := fmt.Sprintf("%s/api/v1/tasks/%d", ts.URL, created.Task.ID)

	// setChecked needs no auth and propagates as a change
	res = doJSON(t, http.MethodPatch, taskURL+"/check", "", `{"checked":true}`)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("setChecked: expected 200, got %d", res.StatusCode)
	}
	waitFor(t, "checked flag in alice feed", func() bool {
		task := findTask(feedAlice)
		return task != nil && task.Checked
	})

	// hide-completed removes it from the render list only now
	if vis := feedAlice.VM.Visible(true); len(vis) != 0 {
		for _, task := range vis {
			if task.Text == taskText {
				t.Fatalf("checked task still in hide-completed list")
			}
		}
	}

	// privacy is owner-only
	res = doJSON(t, http.MethodPatch, taskURL+"/private", tokenBob, `{"private":true}`)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("bob setPrivate: expected 403, got %d", res.StatusCode)
	}

	res = doJSON(t, http.MethodPatch, taskURL+"/private", tokenAlice, `{"private":true}`)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("alice setPrivate: expected 200, got %d", res.StatusCode)
	}

	// a private task vanishes for everyone but the owner
	waitFor(t, "task hidden from bob and anon", func() bool {
		return findTask(feedBob) == nil && findTask(feedAnon) == nil
	})
	if findTask(feedAlice) == nil {
		t.Fatalf("owner lost own private task")
	}

	// remove needs no auth either
	res = doJSON(t, http.MethodDelete, taskURL, "", "")
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", res.StatusCode)
	}
	waitFor(t, "task removed from alice feed", func() bool {
		return findTask(feedAlice) == nil
	})

	// removing it again is a silent no-op
	res = doJSON(t, http.MethodDelete, taskURL, "", "")
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("double remove: expected 200, got %d", res.StatusCode)
	}
}
