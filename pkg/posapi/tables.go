package posapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

type updateTableStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTableStatus sets the floor status of a table.
func (c *Client) UpdateTableStatus(ctx context.Context, tableID, status string) error {
	if strings.TrimSpace(tableID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table id is required")
	}
	path := fmt.Sprintf("tables/%s/status", url.PathEscape(tableID))
	return c.do(ctx, "PATCH", path, updateTableStatusRequest{Status: status}, nil)
}
