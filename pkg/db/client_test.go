package db

import (
	"context"
	"errors"
	"testing"

	"github.com/provisionhq/procurehub-backend/pkg/config"
	"gorm.io/gorm"
)

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	if err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestDialectorForRejectsUnknownDriver(t *testing.T) {
	_, err := dialectorFor(config.DBConfig{DSN: "x", Driver: "oracle"})
	if err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestSQLiteClientRoundTrip(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite client: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	sentinel := errors.New("rollback")
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}
