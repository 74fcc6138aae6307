package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

func TestProductBatch_CanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.BatchStatusAvailable, entity.BatchStatusReserved, true},
		{entity.BatchStatusAvailable, entity.BatchStatusInTransit, true},
		{entity.BatchStatusAvailable, entity.BatchStatusExpired, true},
		{entity.BatchStatusAvailable, entity.BatchStatusQuarantine, true},
		{entity.BatchStatusAvailable, entity.BatchStatusDamaged, true},
		{entity.BatchStatusReserved, entity.BatchStatusAvailable, true},
		{entity.BatchStatusReserved, entity.BatchStatusInTransit, true},
		{entity.BatchStatusReserved, entity.BatchStatusExpired, false},
		{entity.BatchStatusInTransit, entity.BatchStatusAvailable, true},
		{entity.BatchStatusInTransit, entity.BatchStatusDamaged, true},
		{entity.BatchStatusInTransit, entity.BatchStatusReserved, false},
		{entity.BatchStatusQuarantine, entity.BatchStatusAvailable, true},
		{entity.BatchStatusQuarantine, entity.BatchStatusExpired, true},
		// EXPIRED y DAMAGED son terminales
		{entity.BatchStatusExpired, entity.BatchStatusAvailable, false},
		{entity.BatchStatusDamaged, entity.BatchStatusAvailable, false},
	}
	for _, tc := range cases {
		b := &entity.ProductBatch{Status: tc.from}
		assert.Equal(t, tc.ok, b.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestProductBatch_Expired(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	assert.True(t, (&entity.ProductBatch{ExpiryDate: &yesterday}).Expired(now))
	assert.False(t, (&entity.ProductBatch{ExpiryDate: &tomorrow}).Expired(now))
	assert.False(t, (&entity.ProductBatch{}).Expired(now), "sin fecha de vencimiento nunca vence")
}
