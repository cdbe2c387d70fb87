// Package flash implements one-shot notices carried in a short-lived cookie
// and rendered into the next page load.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const cookieName = "flash"

type Message struct {
	Level string `json:"level"` // success | info | warning | danger
	Text  string `json:"text"`
}

func Set(c *fiber.Ctx, level, text string) {
	raw, err := json.Marshal(Message{Level: level, Text: text})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// Pop returns the pending notice, if any, and clears it.
func Pop(c *fiber.Ctx) *Message {
	value := c.Cookies(cookieName)
	if value == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	return &msg
}
