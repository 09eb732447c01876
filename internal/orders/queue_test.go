package orders

import (
	"testing"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCourier(t *testing.T) {
	budi := &models.User{ID: uuid.New(), FullName: "Budi", Email: "budi@example.com"}
	noName := &models.User{ID: uuid.New(), Email: "anon@example.com"}

	held := func(u *models.User) models.Order {
		return models.Order{ID: uuid.New(), StatusID: enums.OrderStatusAssigned, CourierID: &u.ID, Courier: u}
	}
	rows := []models.Order{
		held(noName),
		held(budi),
		{ID: uuid.New(), StatusID: enums.OrderStatusNew},
		held(budi),
	}

	queue := groupByCourier(rows)
	require.Equal(t, 4, queue.TotalOrders)
	require.Len(t, queue.Groups, 3)

	assert.Equal(t, "unassigned", queue.Groups[0].CourierID)
	assert.Equal(t, "Belum Ditugaskan", queue.Groups[0].CourierName)
	assert.Nil(t, queue.Groups[0].CourierEmail)
	assert.Equal(t, 1, queue.Groups[0].OrderCount)

	assert.Equal(t, "Budi", queue.Groups[1].CourierName)
	assert.Equal(t, 2, queue.Groups[1].OrderCount)
	assert.Equal(t, rows[1].ID, queue.Groups[1].Orders[0].ID)

	assert.Equal(t, "anon@example.com", queue.Groups[2].CourierName)
	require.NotNil(t, queue.Groups[2].CourierEmail)
}

func TestGroupByCourierDropsEmptyUnassigned(t *testing.T) {
	courier := &models.User{ID: uuid.New(), FullName: "Sri", Email: "sri@example.com"}
	queue := groupByCourier([]models.Order{{ID: uuid.New(), CourierID: &courier.ID, Courier: courier}})
	require.Len(t, queue.Groups, 1)
	assert.Equal(t, courier.ID.String(), queue.Groups[0].CourierID)

	empty := groupByCourier(nil)
	assert.Empty(t, empty.Groups)
	assert.NotNil(t, empty.Groups)
	assert.Zero(t, empty.TotalOrders)
}
