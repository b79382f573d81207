package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExecute(t *testing.T) {
	var gotReq map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/execute" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"run":{"stdout":"42\n","stderr":"","output":"42\n"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	output, err := client.Execute(context.Background(), "print(42)", "python3", "3.10.0")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output != "42\n" {
		t.Errorf("output = %q", output)
	}
	if gotReq["language"] != "python3" || gotReq["version"] != "3.10.0" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestExecuteEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"run":{"stdout":"","stderr":"","output":""}}`))
	}))
	defer srv.Close()

	output, err := New(srv.URL).Execute(context.Background(), "pass", "python3", "3.10.0")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output != NoOutput {
		t.Errorf("output = %q, want %q", output, NoOutput)
	}
}

func TestExecuteServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"runtime not found"}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Execute(context.Background(), "x", "cobol", "1.0"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestRuntimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/runtimes" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"language":"python3","version":"3.10.0"},{"language":"go","version":"1.16.2"}]`))
	}))
	defer srv.Close()

	runtimes, err := New(srv.URL).Runtimes(context.Background())
	if err != nil {
		t.Fatalf("Runtimes() error = %v", err)
	}
	if len(runtimes) != 2 {
		t.Fatalf("got %d runtimes, want 2", len(runtimes))
	}
	if runtimes[0].Language != "python3" || runtimes[0].Version != "3.10.0" {
		t.Errorf("runtimes[0] = %+v", runtimes[0])
	}
}
