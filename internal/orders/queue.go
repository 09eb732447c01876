package orders

import (
	"sort"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
)

const (
	unassignedGroupID   = "unassigned"
	unassignedGroupName = "Belum Ditugaskan"
)

// groupByCourier buckets orders (already newest first) by courier. The
// unassigned bucket leads when non-empty; empty buckets are dropped and the
// courier buckets ordered by size, ties keeping first-seen order.
func groupByCourier(rows []models.Order) AssignmentQueue {
	groups := []*AssignmentGroup{{
		CourierID:   unassignedGroupID,
		CourierName: unassignedGroupName,
		Orders:      []OrderDTO{},
	}}
	index := map[string]*AssignmentGroup{unassignedGroupID: groups[0]}

	for _, row := range rows {
		key := unassignedGroupID
		if row.CourierID != nil {
			key = row.CourierID.String()
		}
		group, ok := index[key]
		if !ok {
			group = newCourierGroup(key, row.Courier)
			index[key] = group
			groups = append(groups, group)
		}
		group.Orders = append(group.Orders, FromModel(row))
		group.OrderCount++
	}

	out := make([]AssignmentGroup, 0, len(groups))
	for _, g := range groups {
		if g.OrderCount > 0 {
			out = append(out, *g)
		}
	}
	couriers := out
	if len(out) > 0 && out[0].CourierID == unassignedGroupID {
		couriers = out[1:]
	}
	sort.SliceStable(couriers, func(i, j int) bool {
		return couriers[i].OrderCount > couriers[j].OrderCount
	})
	return AssignmentQueue{Groups: out, TotalOrders: len(rows)}
}

func newCourierGroup(key string, courier *models.User) *AssignmentGroup {
	group := &AssignmentGroup{CourierID: key, CourierName: unassignedGroupName, Orders: []OrderDTO{}}
	if courier != nil {
		email := courier.Email
		group.CourierEmail = &email
		if name := courier.DisplayName(); name != "" {
			group.CourierName = name
		}
	}
	return group
}
