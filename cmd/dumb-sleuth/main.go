// dumb-sleuth is a throwaway client for poking at a running server: it joins
// the queue, wanders between rooms, inspects whatever it finds, and now and
// then fires off a random accusation.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

var rooms = []string{
	"bedroom", "study", "lounge", "garden", "kitchen",
	"clinic", "cantina", "old_mine", "town_hall", "well_house",
}

var suspects = []string{"victor", "greta", "marlowe", "ines"}
var weapons = []string{"poison_vial", "letter_opener", "rope", "candlestick"}

type message struct {
	Type    string `json:"type"`
	Room    string `json:"room,omitempty"`
	Suspect string `json:"suspect,omitempty"`
	Weapon  string `json:"weapon,omitempty"`
	Clue    string `json:"clue,omitempty"`
}

func main() {
	wsURL := getenv("WS_URL", "ws://localhost:8080/ws")
	name := getenv("SLEUTH_NAME", "dumb-sleuth")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	join, _ := json.Marshal(map[string]string{"type": "join", "playerName": name})
	_ = conn.WriteMessage(websocket.TextMessage, join)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	go wander(conn, rnd)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type   string  `json:"type"`
			Winner *string `json:"winner"`
		}
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		switch base.Type {
		case "matched":
			log.Printf("matched: %s", data)
		case "game_over":
			log.Printf("game over: %s", data)
			return
		}
	}
}

func wander(conn *websocket.Conn, rnd *rand.Rand) {
	for {
		time.Sleep(time.Duration(2+rnd.Intn(4)) * time.Second)
		var msg message
		switch rnd.Intn(10) {
		case 0:
			msg = message{
				Type:    "accuse",
				Suspect: suspects[rnd.Intn(len(suspects))],
				Weapon:  weapons[rnd.Intn(len(weapons))],
				Room:    rooms[rnd.Intn(len(rooms))],
			}
		case 1, 2:
			msg = message{Type: "inspect", Clue: "clue_" + rooms[rnd.Intn(len(rooms))]}
		case 3:
			msg = message{Type: "interrogate", Suspect: suspects[rnd.Intn(len(suspects))]}
		default:
			msg = message{Type: "move", Room: rooms[rnd.Intn(len(rooms))]}
		}
		payload, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
