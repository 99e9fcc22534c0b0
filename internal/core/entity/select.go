package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
)

var ErrSettingNotFound = errors.New("consumption setting not reported by device")

type AddEntitiesCallback func(entities []*Select)

// SetupSelects creates one select per description when the plant reports
// metering and extra energy features are enabled, and hands them to
// addEntities. addEntities is always called, possibly with no entities.
func SetupSelects(data *coordinator.DataCoordinator, energy *coordinator.DataCoordinator,
	descriptions []domain.SelectEntityDescription, writer StateWriter, addEntities AddEntitiesCallback) {

	selects := []*Select{}

	device := data.Device()
	if device.Features()[ariston.HAS_METERING] && device.ExtraEnergyFeatures() {
		for _, description := range descriptions {
			selects = append(selects, NewSelect(energy, description, writer))
		}
	}

	addEntities(selects)
}

// Select exposes a consumption setting as a choice among the names of its enum.
type Select struct {
	CoordinatorEntity
	description domain.SelectEntityDescription
}

func NewSelect(c *coordinator.DataCoordinator, description domain.SelectEntityDescription, writer StateWriter) *Select {
	return &Select{
		CoordinatorEntity: NewCoordinatorEntity(c, writer),
		description:       description,
	}
}

func (s *Select) Id() string {
	return s.description.Key
}

func (s *Select) Name() string {
	return s.description.Name
}

func (s *Select) Description() domain.SelectEntityDescription {
	return s.description
}

func (s *Select) UniqueId() string {
	return fmt.Sprintf("%s-%s", s.Device().Attributes()[ariston.GW_ID], s.Name())
}

func (s *Select) CurrentOption() (string, error) {
	raw, ok := s.Device().ConsumptionsSettings()[s.description.Key]
	if !ok {
		return "", fmt.Errorf("%s: %w", s.description.Key, ErrSettingNotFound)
	}
	member, ok := s.description.Enum.FromValue(raw)
	if !ok {
		return "", fmt.Errorf("%s %s=%d: %w", s.description.Enum.Name(), s.description.Key, raw, domain.ErrUnknownValue)
	}
	return member.Name, nil
}

func (s *Select) Options() []string {
	return s.description.Enum.Names()
}

func (s *Select) State() (string, error) {
	return s.CurrentOption()
}

// SelectOption writes the value of option to the plant and then asks the
// host to publish the state. The displayed option is whatever the device
// snapshot holds afterwards.
func (s *Select) SelectOption(ctx context.Context, option string) error {
	member, ok := s.description.Enum.FromName(option)
	if !ok {
		return fmt.Errorf("%s %q: %w", s.description.Enum.Name(), option, domain.ErrUnknownOption)
	}
	if err := s.Device().SetConsumptionsSettings(ctx, s.description.Key, member.Value); err != nil {
		return err
	}
	s.writeState(s)
	return nil
}

// HandleCoordinatorUpdate is called by the host after each energy refresh.
func (s *Select) HandleCoordinatorUpdate() {
	s.writeState(s)
}

// ensure interface compliance
var _ Entity = (*Select)(nil)
