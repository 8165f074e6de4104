package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8000/api/v1"

var client *http.Client

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper. Auth rides on the session cookie set by login.
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
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

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func main() {
	jar, _ := cookiejar.New(nil)
	client = &http.Client{Jar: jar}

	email := "smoke-test@example.com"
	password := "Sm0ke-test-pass!"

	color.Cyan("🚀 Starting WikiVoice API Smoke Test\n")

	// 1. Check user, register or login accordingly
	color.Yellow("\n[AUTH] 1. Check user")
	resp, body, err := sendRequest("POST", "/auth/check-user", map[string]string{"email": email})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	checkResp := decode(body)
	prettyPrint(checkResp)

	exists := false
	if data, ok := checkResp["data"].(map[string]interface{}); ok {
		exists, _ = data["exists"].(bool)
	}

	if !exists {
		color.Yellow("\n[AUTH] 2. Register")
		resp, body, err = sendRequest("POST", "/auth/register", map[string]string{
			"email":    email,
			"password": password,
		})
	} else {
		color.Yellow("\n[AUTH] 2. Login")
		resp, body, err = sendRequest("POST", "/auth/login", map[string]string{
			"email":    email,
			"password": password,
		})
	}
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Create session
	color.Yellow("\n[SESSION] 3. Create session")
	resp, body, err = sendRequest("POST", "/sessions", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	sessionResp := decode(body)
	prettyPrint(sessionResp)

	var sessionID string
	if data, ok := sessionResp["data"].(map[string]interface{}); ok {
		sessionID, _ = data["id"].(string)
	}
	if sessionID == "" {
		color.Red("No session id returned")
		os.Exit(1)
	}

	// 4. Submit a query
	color.Yellow("\n[QUERY] 4. Submit query")
	resp, body, err = sendRequest("POST", "/query", map[string]interface{}{
		"session_id": sessionID,
		"query_text": "Do you know anything about Rolex?",
		"input_mode": "text",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 5. Conversation history
	color.Yellow("\n[QUERY] 5. Get history")
	resp, body, err = sendRequest("GET", "/query/history/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. List sessions (title should now be the first query)
	color.Yellow("\n[SESSION] 6. List sessions")
	resp, body, err = sendRequest("GET", "/sessions?limit=5", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Logout
	color.Yellow("\n[AUTH] 7. Logout")
	resp, body, err = sendRequest("POST", "/auth/logout", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
