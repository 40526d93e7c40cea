package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "server base URL")
	wsURL := flag.String("ws", "ws://localhost:5000/ws", "websocket endpoint")
	numClients := flag.Int("clients", 4, "number of simulated players")
	roomID := flag.String("room", "", "existing room id (created when empty)")
	messages := flag.Int("messages", 100, "messages sent per client")
	flag.Parse()

	if *numClients < 1 {
		log.Fatal("need at least one client")
	}

	if *roomID == "" {
		*roomID = createRoom(*baseURL)
		fmt.Println("Created room:", *roomID)
	} else {
		fmt.Println("Using existing room:", *roomID)
	}

	names := make([]string, *numClients)
	for i := range names {
		names[i] = fmt.Sprintf("player%d", i)
		joinRoom(*baseURL, *roomID, names[i])
	}

	done := make(chan struct{})
	for _, name := range names {
		go func(name string) {
			connectAndSpam(*wsURL, *roomID, name, *messages)
			done <- struct{}{}
		}(name)
	}

	if *numClients >= 2 {
		time.Sleep(500 * time.Millisecond)
		fmt.Println("Start game:", startGame(*baseURL, *roomID))
	}

	for range names {
		<-done
	}
}

func post(url string, body any, out any) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("POST %s: invalid JSON: %v", url, err)
	}
}

func createRoom(baseURL string) string {
	var res struct {
		RoomID string `json:"roomId"`
	}
	post(baseURL+"/api/create-room", struct{}{}, &res)
	if res.RoomID == "" {
		log.Fatal("room creation returned no roomId")
	}
	return res.RoomID
}

func joinRoom(baseURL, roomID, name string) {
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	post(baseURL+"/api/join-room", map[string]string{"roomId": roomID, "playerName": name}, &res)
	if !res.Success {
		log.Fatalf("join %s: %s", name, res.Message)
	}
}

func startGame(baseURL, roomID string) string {
	var res struct {
		Message       string `json:"message"`
		CurrentDrawer string `json:"currentDrawer"`
	}
	post(baseURL+"/api/start-game", map[string]string{"roomId": roomID}, &res)
	return res.Message + ", drawer " + res.CurrentDrawer
}

func connectAndSpam(wsURL, roomID, name string, count int) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Println("WS connect error:", err)
		return
	}
	defer conn.Close()

	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var in struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(msg, &in) == nil && in.Type == "correctGuess" {
				fmt.Printf("%s saw %s\n", name, msg)
			}
		}
	}()

	send := func(m WSMessage) bool {
		if err := conn.WriteJSON(m); err != nil {
			log.Printf("Write error for %s: %v", name, err)
			return false
		}
		return true
	}

	if !send(WSMessage{Type: "joinRoom", Data: map[string]string{"roomId": roomID, "playerName": name}}) {
		return
	}
	fmt.Printf("%s joined\n", name)

	words := []string{"apple", "banana", "guitar", "elephant", "rocket"}
	for i := 0; i < count; i++ {
		var m WSMessage
		if rand.Intn(4) == 0 {
			m = WSMessage{Type: "guess", Data: map[string]string{
				"roomId": roomID, "playerName": name, "guess": words[rand.Intn(len(words))],
			}}
		} else {
			m = WSMessage{Type: "draw", Data: map[string]any{
				"roomId": roomID,
				"data":   map[string]any{"x": rand.Intn(800), "y": rand.Intn(600), "color": "#000000"},
			}}
		}
		if !send(m) {
			return
		}

		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}

	fmt.Printf("%s finished sending messages\n", name)
}
