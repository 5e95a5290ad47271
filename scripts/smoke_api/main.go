package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const defaultBaseURL = "http://localhost:3000/api"

type step struct {
	title  string
	method string
	path   string
	body   interface{}
	want   int
}

func prettyPrint(out io.Writer, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "%v\n", v)
		return
	}
	fmt.Fprintln(out, string(b))
}

func sendRequest(client *http.Client, method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func conversation(sessionID string) []step {
	chat := func(msg string) map[string]string {
		return map[string]string{"session_id": sessionID, "mensaje": msg}
	}
	return []step{
		{"Health", http.MethodGet, "/health", nil, http.StatusOK},
		{"Chat before greeting", http.MethodPost, "/chat", chat("marte"), http.StatusOK},
		{"Greeting", http.MethodPost, "/chat", chat("hola"), http.StatusOK},
		{"Topic: space", http.MethodPost, "/chat", chat("háblame de marte"), http.StatusOK},
		{"Rejected message", http.MethodPost, "/chat", chat("12345"), http.StatusOK},
		{"Analysis", http.MethodPost, "/analisis", map[string]string{"mensaje": "los robots aprenden rápido"}, http.StatusOK},
		{"Session state", http.MethodGet, "/sessions/" + sessionID, nil, http.StatusOK},
		{"Farewell", http.MethodPost, "/chat", chat("adiós"), http.StatusOK},
		{"Stats", http.MethodGet, "/stats", nil, http.StatusOK},
		{"Cleanup session", http.MethodDelete, "/sessions/" + sessionID, nil, http.StatusOK},
	}
}

// run walks a full conversation against a running server and returns the
// number of steps whose status differed from the expected one
func run(baseURL string, out io.Writer) (int, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	sessionID := fmt.Sprintf("smoke-%d", time.Now().UnixNano())
	failed := 0

	color.New(color.FgCyan).Fprintf(out, "🚀 SciTech Bot API smoke test against %s\n", baseURL)

	for i, s := range conversation(sessionID) {
		color.New(color.FgYellow).Fprintf(out, "\n%d. %s\n", i+1, s.title)

		resp, body, err := sendRequest(client, s.method, baseURL+s.path, s.body)
		if err != nil {
			return failed, fmt.Errorf("%s: %w", s.title, err)
		}

		if resp.StatusCode != s.want {
			failed++
			color.New(color.FgRed).Fprintf(out, "Status: %s (want %d)\n", resp.Status, s.want)
		} else {
			color.New(color.FgGreen).Fprintf(out, "Status: %s\n", resp.Status)
		}

		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			fmt.Fprintln(out, string(body))
			continue
		}
		if data, ok := parsed["data"].(map[string]interface{}); ok {
			if reply, ok := data["respuesta"]; ok {
				fmt.Fprintf(out, "Reply [%v]: %v\n", data["regla"], reply)
				continue
			}
		}
		prettyPrint(out, parsed)
	}

	return failed, nil
}

func main() {
	baseURL := os.Getenv("SMOKE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	failed, err := run(baseURL, os.Stdout)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if failed > 0 {
		color.Red("\n❌ %d step(s) returned an unexpected status", failed)
		os.Exit(1)
	}
	color.Cyan("\n✅ Smoke sequence complete")
}
