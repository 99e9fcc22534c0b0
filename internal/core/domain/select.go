package domain

import (
	"errors"
	"fmt"

	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/config"
)

var (
	Currency = MustEnum("Currency",
		EnumMember{Name: "ARS", Value: 1},
		EnumMember{Name: "EUR", Value: 2},
		EnumMember{Name: "GBP", Value: 3},
		EnumMember{Name: "JPY", Value: 4},
		EnumMember{Name: "NOK", Value: 5},
		EnumMember{Name: "RUB", Value: 6},
		EnumMember{Name: "USD", Value: 7},
		EnumMember{Name: "CHF", Value: 8},
	)

	GasType = MustEnum("GasType",
		EnumMember{Name: "NATURAL_GAS", Value: 1},
		EnumMember{Name: "LPG", Value: 2},
		EnumMember{Name: "AIR_PROPANED", Value: 3},
		EnumMember{Name: "GPO", Value: 4},
		EnumMember{Name: "PROPANE", Value: 5},
	)

	GasEnergyUnit = MustEnum("GasEnergyUnit",
		EnumMember{Name: "KWH", Value: 1},
		EnumMember{Name: "GIGA_JOULE", Value: 2},
		EnumMember{Name: "THERM", Value: 3},
		EnumMember{Name: "MEGA_JOULE", Value: 4},
		EnumMember{Name: "KWH_M3", Value: 5},
	)
)

// SelectEntityDescription binds a consumption settings key to the
// enumeration of its allowed values.
type SelectEntityDescription struct {
	Key            string
	Name           string
	Icon           string
	EntityCategory string
	Enum           *Enum
}

func DefaultSelectDescriptions() []SelectEntityDescription {
	return []SelectEntityDescription{
		{
			Key:            ariston.CONSUMPTION_CURRENCY,
			Name:           "Consumption currency",
			Icon:           "mdi:cash",
			EntityCategory: ENTITY_CLASS_CONFIG,
			Enum:           Currency,
		},
		{
			Key:            ariston.CONSUMPTION_GAS_TYPE,
			Name:           "Consumption gas type",
			Icon:           "mdi:gas-cylinder",
			EntityCategory: ENTITY_CLASS_CONFIG,
			Enum:           GasType,
		},
		{
			Key:            ariston.CONSUMPTION_GAS_ENERGY_UNIT,
			Name:           "Consumption gas energy unit",
			Icon:           "mdi:cube-scan",
			EntityCategory: ENTITY_CLASS_CONFIG,
			Enum:           GasEnergyUnit,
		},
	}
}

// SelectDescriptions returns the built-in descriptions followed by the ones
// declared in configuration. Keys must be unique.
func SelectDescriptions(extra []config.SelectConfig) ([]SelectEntityDescription, error) {
	descriptions := DefaultSelectDescriptions()
	keys := map[string]bool{}
	for _, d := range descriptions {
		keys[d.Key] = true
	}
	for _, sc := range extra {
		if sc.Key == "" {
			return nil, errors.New("select: key is required")
		}
		if keys[sc.Key] {
			return nil, fmt.Errorf("select %s: duplicated key", sc.Key)
		}
		members := make([]EnumMember, len(sc.Options))
		for i, o := range sc.Options {
			members[i] = EnumMember{Name: o.Name, Value: o.Value}
		}
		enum, err := NewEnum(sc.Key, members...)
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", sc.Key, err)
		}
		name := sc.Name
		if name == "" {
			name = sc.Key
		}
		keys[sc.Key] = true
		descriptions = append(descriptions, SelectEntityDescription{
			Key:            sc.Key,
			Name:           name,
			Icon:           sc.Icon,
			EntityCategory: ENTITY_CLASS_CONFIG,
			Enum:           enum,
		})
	}
	return descriptions, nil
}
