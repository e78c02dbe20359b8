package state

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalUserID generates the id used when the host shell provides no identity.
func LocalUserID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), random)
}

// TelegramUserID namespaces a Telegram user id.
func TelegramUserID(id int64) string {
	return "telegram_" + strconv.FormatInt(id, 10)
}

// nextID returns a millisecond timestamp id, bumped past the last issued id
// and any id already present in the state. Caller holds c.mu.
func (c *Controller) nextID(now time.Time) string {
	n := now.UnixMilli()
	if n <= c.lastID {
		n = c.lastID + 1
	}
	for c.idTaken(strconv.FormatInt(n, 10)) {
		n++
	}
	c.lastID = n
	return strconv.FormatInt(n, 10)
}

func (c *Controller) idTaken(id string) bool {
	for _, r := range c.st.Contracts {
		if r.ID == id {
			return true
		}
	}
	for _, r := range c.st.Invoices {
		if r.ID == id {
			return true
		}
	}
	for _, r := range c.st.Documents {
		if r.ID == id {
			return true
		}
	}
	return false
}
