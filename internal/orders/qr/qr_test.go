package qr_test

import (
	"bytes"
	"testing"
	"time"

	"eventhub/internal/models"
	"eventhub/internal/orders/qr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

func TestTicketQR(t *testing.T) {
	gen := qr.NewGenerator("test-secret")

	order := models.Order{
		ID:          uuid.New().String(),
		StripeID:    "cs_test_qr",
		EventID:     "event-1",
		BuyerID:     "buyer-1",
		AmountCents: 2500,
		CreatedAt:   time.Now(),
	}

	png, err := gen.TicketQR(order)
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader), "output should be a PNG image")
}

func TestTicketQRSecretLength(t *testing.T) {
	// Any secret length works, the key is hashed to 32 bytes
	for _, secret := range []string{"x", "a-much-longer-secret-than-a-single-aes-block-size"} {
		gen := qr.NewGenerator(secret)
		png, err := gen.TicketQR(models.Order{ID: "o1", StripeID: "cs", EventID: "e", BuyerID: "b"})
		assert.NoError(t, err)
		assert.NotEmpty(t, png)
	}
}
