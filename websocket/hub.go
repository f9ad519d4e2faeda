package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// VisitStatusEvent is pushed to both parties of a visit whenever its status
// changes, so dashboards refresh without polling.
type VisitStatusEvent struct {
	Type       string      `json:"type"`
	Event      string      `json:"event"`
	VisitID    string      `json:"visit_id"`
	PropertyID string      `json:"property_id"`
	Status     string      `json:"status"`
	VisitDate  string      `json:"visit_date"`
	VisitTime  string      `json:"visit_time"`
	Recipients []uuid.UUID `json:"-"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Message, 64)
var VisitEvents = make(chan *VisitStatusEvent, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case message := <-Broadcast:
			deliverMessage(message)
		case event := <-VisitEvents:
			for _, recipient := range event.Recipients {
				sendJSON(recipient, event)
			}
		}
	}
}

func deliverMessage(message *models.Message) {
	var participantIDs []uuid.UUID
	err := database.DB.
		Table("conversation_participants").
		Where("conversation_id = ?", message.ConversationID).
		Pluck("user_id", &participantIDs).Error
	if err != nil {
		log.Printf("Error fetching participant IDs for conversation %s: %v", message.ConversationID, err)
		return
	}

	for _, participantID := range participantIDs {
		if participantID == message.SenderID {
			continue
		}
		sendJSON(participantID, message)
	}
}

func sendJSON(userID uuid.UUID, payload interface{}) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Error sending payload to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		delete(clients, userID)
		clientsMu.Unlock()
	}
}
