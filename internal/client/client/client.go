package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/propkeeper/internal/client/models"
	"github.com/dmitrijs2005/propkeeper/internal/client/session"
)

type Client interface {
	Login(ctx context.Context, username string, password []byte) (session.Pair, error)
	Logout(ctx context.Context, refreshToken string) error
	Ping(ctx context.Context) error
	List(ctx context.Context, c models.Collection, page int) (*models.Page[json.RawMessage], error)
	Get(ctx context.Context, c models.Collection, id int64) (json.RawMessage, error)
	Create(ctx context.Context, c models.Collection, body any) (json.RawMessage, error)
	Delete(ctx context.Context, c models.Collection, id int64) error
}
