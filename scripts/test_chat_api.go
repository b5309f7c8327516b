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

const (
	baseURL   = "http://localhost:3000/api"
	testEmail = "smoke+chat@legalchat.bj"
	testPass  = "motdepasse-smoke-1"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("🚀 Starting Legal Chat API Smoke Test\n")

	// 1. Register (idempotent enough for a dev database; 400 on re-run is fine)
	color.Yellow("\n1. Register Test User")
	resp, body, err := sendRequest("POST", "/auth/v1/register", "", map[string]interface{}{
		"email":     testEmail,
		"full_name": "Smoke Tester",
		"password":  testPass,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Login
	color.Yellow("\n2. Login")
	resp, body, err = sendRequest("POST", "/auth/v1/login", "", map[string]interface{}{
		"email":    testEmail,
		"password": testPass,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var loginResp map[string]interface{}
	json.Unmarshal(body, &loginResp)
	var token string
	if data, ok := loginResp["data"].(map[string]interface{}); ok {
		if t, ok := data["access_token"].(string); ok {
			token = t
		}
	}
	if token == "" {
		color.Red("No access token in login response:")
		prettyPrint(loginResp)
		os.Exit(1)
	}

	// 3. Greeting short-circuit (should answer instantly, no sources)
	color.Yellow("\n3. Chat: Greeting")
	start := time.Now()
	resp, body, err = sendRequest("POST", "/chat/v1", token, map[string]interface{}{
		"question": "Bonjour !",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s (%.2fs)", resp.Status, time.Since(start).Seconds())
	var chatResp map[string]interface{}
	json.Unmarshal(body, &chatResp)
	if data, ok := chatResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Answer: %s\n", data["answer"])
	}

	// 4. Full pipeline question
	color.Yellow("\n4. Chat: Legal Question (full pipeline)")
	start = time.Now()
	resp, body, err = sendRequest("POST", "/chat/v1", token, map[string]interface{}{
		"question": "Quelles sont les conditions de validité du mariage au Bénin ?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s (%.2fs)", resp.Status, time.Since(start).Seconds())
	json.Unmarshal(body, &chatResp)
	// Concise printing to avoid dumping full excerpts
	if data, ok := chatResp["data"].(map[string]interface{}); ok {
		fmt.Printf("Answer: %s\n", data["answer"])
		if docs, ok := data["relevant_documents"].([]interface{}); ok {
			fmt.Printf("Relevant documents: %d\n", len(docs))
		}
		if sources, ok := data["sources"].([]interface{}); ok {
			fmt.Printf("Sources: %d\n", len(sources))
			prettyPrint(sources)
		}
	} else {
		prettyPrint(chatResp)
	}

	// 5. History page 1 (newest window)
	color.Yellow("\n5. History: Page 1")
	resp, body, err = sendRequest("GET", "/chat/v1/history?page=1", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var histResp map[string]interface{}
	json.Unmarshal(body, &histResp)
	if data, ok := histResp["data"].(map[string]interface{}); ok {
		if msgs, ok := data["messages"].([]interface{}); ok {
			fmt.Printf("Messages: %d | total_count: %v | total_pages: %v | has_prev: %v\n",
				len(msgs), data["total_count"], data["total_pages"], data["has_prev"])
		}
	}

	// 6. Cancel (no turn in flight, should report cancelled=false)
	color.Yellow("\n6. Cancel (idle)")
	resp, body, err = sendRequest("POST", "/chat/v1/cancel", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var cancelResp map[string]interface{}
	json.Unmarshal(body, &cancelResp)
	prettyPrint(cancelResp["data"])

	// 7. Clear history
	color.Yellow("\n7. Clear History")
	resp, body, err = sendRequest("DELETE", "/chat/v1/clear", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke Test Complete")
}
