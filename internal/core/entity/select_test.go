package entity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/ariston/mocks"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var boostMode = domain.SelectEntityDescription{
	Key:  "boost_mode",
	Name: "Boost mode",
	Enum: domain.MustEnum("BoostMode",
		domain.EnumMember{Name: "OFF", Value: 0},
		domain.EnumMember{Name: "ON", Value: 1},
	),
}

func boostDevice(metering bool) *ariston.MemoryDevice {
	return ariston.NewMemoryDevice(
		map[ariston.DeviceAttribute]string{ariston.GW_ID: "F0AD4E0590BD"},
		map[ariston.DeviceFeature]bool{ariston.HAS_METERING: metering},
		true,
		map[string]int{"boost_mode": 0},
	)
}

func setup(t *testing.T, dev ariston.Device, descriptions []domain.SelectEntityDescription, writer StateWriter) []*Select {
	data := coordinator.NewDeviceDataCoordinator(dev, time.Minute)
	energy := coordinator.NewEnergyCoordinator(dev, time.Minute)

	calls := 0
	var selects []*Select
	SetupSelects(data, energy, descriptions, writer, func(entities []*Select) {
		calls++
		selects = entities
	})
	require.Equal(t, 1, calls, "entities registered once")
	return selects
}

func TestBoostModeScenario(t *testing.T) {

	assert := assert.New(t)
	require := require.New(t)

	dev := boostDevice(true)
	var written []Entity
	selects := setup(t, dev, []domain.SelectEntityDescription{boostMode}, func(e Entity) {
		written = append(written, e)
	})
	require.Len(selects, 1)
	sel := selects[0]

	current, err := sel.CurrentOption()
	require.NoError(err)
	assert.Equal("OFF", current)
	assert.Equal([]string{"OFF", "ON"}, sel.Options())
	assert.Equal("F0AD4E0590BD-Boost mode", sel.UniqueId())
	assert.Equal(coordinator.ENERGY, sel.Coordinator().Name(), "bound to the energy coordinator")

	require.NoError(sel.SelectOption(context.Background(), "ON"))
	assert.Equal([]ariston.SetCall{{Key: "boost_mode", Value: 1}}, dev.SetCalls())
	require.Len(written, 1, "state written after the device call")
	assert.Same(sel, written[0])

	current, err = sel.CurrentOption()
	require.NoError(err)
	assert.Equal("ON", current)
}

func TestNoMeteringNoEntities(t *testing.T) {

	selects := setup(t, boostDevice(false), append(domain.DefaultSelectDescriptions(), boostMode), nil)
	assert.Empty(t, selects)
}

func TestNoExtraEnergyFeaturesNoEntities(t *testing.T) {

	dev := ariston.NewMemoryDevice(
		map[ariston.DeviceAttribute]string{ariston.GW_ID: "F0AD4E0590BD"},
		map[ariston.DeviceFeature]bool{ariston.HAS_METERING: true},
		false,
		nil,
	)
	assert.Empty(t, setup(t, dev, domain.DefaultSelectDescriptions(), nil))
}

func TestOneEntityPerDescription(t *testing.T) {

	descriptions := domain.DefaultSelectDescriptions()
	selects := setup(t, ariston.NewTestDevice(), descriptions, nil)
	require.Len(t, selects, len(descriptions))
	for i := range descriptions {
		assert.Equal(t, descriptions[i].Key, selects[i].Id())
		assert.Equal(t, descriptions[i].Enum.Names(), selects[i].Options())
	}
}

func TestCurrentOptionForEveryValue(t *testing.T) {

	dev := ariston.NewTestDevice()
	selects := setup(t, dev, domain.DefaultSelectDescriptions(), nil)
	for _, sel := range selects {
		for _, member := range sel.Description().Enum.Members() {
			dev.StoreSetting(sel.Id(), member.Value)
			current, err := sel.CurrentOption()
			require.NoError(t, err)
			assert.Equal(t, member.Name, current)
		}
	}
}

func TestSelectOptionWritesMemberValue(t *testing.T) {

	ctrl := gomock.NewController(t)
	dev := mocks.NewMockDevice(ctrl)
	dev.EXPECT().Features().Return(map[ariston.DeviceFeature]bool{ariston.HAS_METERING: true}).AnyTimes()
	dev.EXPECT().ExtraEnergyFeatures().Return(true).AnyTimes()

	selects := setup(t, dev, []domain.SelectEntityDescription{{
		Key:  ariston.CONSUMPTION_GAS_TYPE,
		Name: "Gas type",
		Enum: domain.GasType,
	}}, nil)
	require.Len(t, selects, 1)

	for _, member := range domain.GasType.Members() {
		dev.EXPECT().SetConsumptionsSettings(gomock.Any(), ariston.CONSUMPTION_GAS_TYPE, member.Value).Return(nil).Times(1)
		assert.NoError(t, selects[0].SelectOption(context.Background(), member.Name))
	}
}

func TestSelectOptionUnknownName(t *testing.T) {

	ctrl := gomock.NewController(t)
	dev := mocks.NewMockDevice(ctrl)
	dev.EXPECT().SetConsumptionsSettings(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	energy := coordinator.NewEnergyCoordinator(dev, time.Minute)
	sel := NewSelect(energy, boostMode, nil)

	err := sel.SelectOption(context.Background(), "MAYBE")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
}

func TestSelectOptionDeviceError(t *testing.T) {

	dev := boostDevice(true)
	offline := errors.New("plant offline")
	dev.FailSettings(offline)

	writes := 0
	sel := NewSelect(coordinator.NewEnergyCoordinator(dev, time.Minute), boostMode, func(Entity) { writes++ })

	err := sel.SelectOption(context.Background(), "ON")
	assert.ErrorIs(t, err, offline, "device error propagates")
	assert.Equal(t, 0, writes, "no state write on failure")

	current, err := sel.CurrentOption()
	require.NoError(t, err)
	assert.Equal(t, "OFF", current, "no optimistic update")
}

func TestCurrentOptionUnknownValue(t *testing.T) {

	dev := boostDevice(true)
	dev.StoreSetting("boost_mode", 9)
	sel := NewSelect(coordinator.NewEnergyCoordinator(dev, time.Minute), boostMode, nil)

	_, err := sel.CurrentOption()
	assert.ErrorIs(t, err, domain.ErrUnknownValue)

	_, err = sel.State()
	assert.ErrorIs(t, err, domain.ErrUnknownValue)
}

func TestCurrentOptionMissingSetting(t *testing.T) {

	dev := ariston.NewMemoryDevice(map[ariston.DeviceAttribute]string{ariston.GW_ID: "X"}, nil, true, nil)
	sel := NewSelect(coordinator.NewEnergyCoordinator(dev, time.Minute), boostMode, nil)

	_, err := sel.CurrentOption()
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestUniqueIdStability(t *testing.T) {

	a := NewSelect(coordinator.NewEnergyCoordinator(boostDevice(true), time.Minute), boostMode, nil)
	b := NewSelect(coordinator.NewEnergyCoordinator(boostDevice(true), time.Minute), boostMode, nil)
	assert.Equal(t, a.UniqueId(), b.UniqueId())

	other := ariston.NewMemoryDevice(map[ariston.DeviceAttribute]string{ariston.GW_ID: "AAAA00000001"}, nil, true, nil)
	c := NewSelect(coordinator.NewEnergyCoordinator(other, time.Minute), boostMode, nil)
	assert.NotEqual(t, a.UniqueId(), c.UniqueId())
}

func TestAvailability(t *testing.T) {

	energy := coordinator.NewEnergyCoordinator(boostDevice(true), time.Minute)
	sel := NewSelect(energy, boostMode, nil)
	assert.False(t, sel.Available(), "not available before the first refresh")

	require.NoError(t, energy.Refresh(context.Background()))
	assert.True(t, sel.Available())
}

func TestHandleCoordinatorUpdateWritesState(t *testing.T) {

	var states []string
	sel := NewSelect(coordinator.NewEnergyCoordinator(boostDevice(true), time.Minute), boostMode, func(e Entity) {
		state, err := e.State()
		require.NoError(t, err)
		states = append(states, state)
	})
	sel.HandleCoordinatorUpdate()
	assert.Equal(t, []string{"OFF"}, states)
}
