package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"todo_webapp/internal/client"
	"todo_webapp/internal/db"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/repository"
	"todo_webapp/internal/service"

	"golang.org/x/crypto/bcrypt"
)

// Smoke test against a running server: subscribes two users to the task
// feed, inserts a task as the first one over HTTP and verifies both
// view-models converge on it.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ur := repository.NewUserRepository(pool)
	ctx := context.Background()

	ensureUser := func(username string) *domain.User {
		u, err := ur.GetByUsername(ctx, username)
		if err == nil {
			return u
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("smoke-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash: %v", err)
		}
		u = &domain.User{Username: username, FirstName: "Smoke", PasswordHash: string(hash)}
		if err := ur.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", username, err)
		}
		return u
	}

	uA := ensureUser("smokeA")
	uB := ensureUser("smokeB")

	service.InitJWT()
	tokenA, err := service.GenerateJWT(uA.ID)
	if err != nil {
		log.Fatalf("gen token A: %v", err)
	}
	tokenB, err := service.GenerateJWT(uB.ID)
	if err != nil {
		log.Fatalf("gen token B: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	baseWS := fmt.Sprintf("ws://127.0.0.1:%s", port)
	baseHTTP := fmt.Sprintf("http://127.0.0.1:%s", port)

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fcA, err := client.Dial(dialCtx, baseWS, tokenA)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer fcA.Close()

	fcB, err := client.Dial(dialCtx, baseWS, tokenB)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer fcB.Close()

	waitReady := func(name string, fc *client.FeedClient) {
		select {
		case <-fc.Ready:
		case <-time.After(3 * time.Second):
			log.Fatalf("%s: no ready handshake", name)
		}
	}
	waitReady("A", fcA)
	waitReady("B", fcB)

	// insert a task as user A over the HTTP method surface
	body, _ := json.Marshal(map[string]string{"text": "smoke task"})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, baseHTTP+"/api/v1/tasks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenA)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("insert: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Fatalf("insert: status %d", res.StatusCode)
	}

	// both subscribers should observe the new task
	deadline := time.Now().Add(3 * time.Second)
	seen := func(fc *client.FeedClient) bool {
		for _, t := range fc.VM.Tasks() {
			if t.Text == "smoke task" {
				return true
			}
		}
		return false
	}
	for !seen(fcA) || !seen(fcB) {
		if time.Now().After(deadline) {
			log.Fatalf("task did not reach both feeds (A=%v B=%v)", seen(fcA), seen(fcB))
		}
		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("ws smoke ok: task visible to both subscribers (A=%d tasks, B=%d tasks)",
		len(fcA.VM.Tasks()), len(fcB.VM.Tasks()))
}
