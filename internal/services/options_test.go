package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"car-listings-api/internal/services"
)

func TestReference(t *testing.T) {
	fake := &fakeAPI{
		lists: map[string][]string{
			"makes":              {"Kia", "Toyota"},
			"locations":          {"Riyadh"},
			"fuel_types":         {"Petrol"},
			"body_types":         {"3", "5"},
			"transmission_types": {"1", "2"},
			"seller_types":       {"individual", "business"},
			"websites":           {"syarah"},
		},
		years: []int{2019, 2024, 2021},
	}
	svc := services.NewOptionsService(fake, nil, zap.NewNop(), nil)

	opts, err := svc.Reference(context.Background())
	require.Error(t, err, "colors are not stubbed")
	assert.ErrorContains(t, err, "colors")
	require.NotNil(t, opts)

	assert.Equal(t, []string{"Kia", "Toyota"}, opts.Makes)
	assert.Equal(t, []string{}, opts.Colors)
	assert.Equal(t, []int{2024, 2021, 2019}, opts.Years)
	assert.Len(t, opts.Sorts, 9)
	assert.Equal(t, "SUV", opts.Labels["body_type:5"].Label)
	assert.Equal(t, "Automatic", opts.Labels["transmission_type:2"].Label)
}

func TestDependentVocabularies(t *testing.T) {
	fake := &fakeAPI{
		lists: map[string][]string{
			"models:Kia":         {"Rio", "Sportage"},
			"trims:Kia:Sportage": {"LX", "GT-Line"},
		},
	}
	svc := services.NewOptionsService(fake, nil, zap.NewNop(), nil)
	ctx := context.Background()

	models, err := svc.Models(ctx, "Kia")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rio", "Sportage"}, models)

	trims, err := svc.Trims(ctx, "Kia", "Sportage")
	require.NoError(t, err)
	assert.Equal(t, []string{"LX", "GT-Line"}, trims)

	_, err = svc.Models(ctx, "Unknown")
	assert.Error(t, err)
}
