package static

import "fmt"

// Kind names an entity variant backed by one SDE table.
type Kind string

const (
	KindRegion  Kind = "region"
	KindSystem  Kind = "system"
	KindStation Kind = "station"
	KindItem    Kind = "item"
)

// Table describes the columns used to resolve a Kind by name.
type Table struct {
	Name       string
	IDColumn   string
	NameColumn string
}

var tables = map[Kind]Table{
	KindRegion:  {Name: "mapRegions", IDColumn: "regionID", NameColumn: "regionName"},
	KindSystem:  {Name: "mapSolarSystems", IDColumn: "solarSystemID", NameColumn: "solarSystemName"},
	KindStation: {Name: "staStations", IDColumn: "stationID", NameColumn: "stationName"},
	KindItem:    {Name: "invTypes", IDColumn: "typeID", NameColumn: "typeName"},
}

// TableFor returns the lookup table of kind.
func TableFor(kind Kind) (Table, error) {
	t, ok := tables[kind]
	if !ok {
		return Table{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return t, nil
}

// lookupQuery selects the id for a name. placeholder is the driver's
// bind marker ("$1" or "?"). Identifiers come from the fixed table map
// above, never from callers.
func (t Table) lookupQuery(placeholder string) string {
	return fmt.Sprintf(`SELECT "%s" FROM "%s" WHERE "%s" = %s`, t.IDColumn, t.Name, t.NameColumn, placeholder)
}

const regionSystemsQuery = `
SELECT regions."regionID" AS region_id
     , regions."regionName" AS region_name
     , systems."solarSystemID" AS system_id
     , systems."solarSystemName" AS system_name
  FROM "mapRegions" AS regions
  JOIN "mapSolarSystems" AS systems
    ON systems."regionID" = regions."regionID"`

const stationsQuery = `
SELECT "stationID" AS station_id
     , "stationName" AS station_name
     , "solarSystemID" AS system_id
     , "regionID" AS region_id
  FROM "staStations"`

const typesQuery = `
SELECT "typeID" AS type_id
     , "typeName" AS type_name
     , "groupID" AS group_id
     , "volume" AS volume
  FROM "invTypes"`

type regionSystemRow struct {
	RegionID   int64  `db:"region_id" gorm:"column:region_id"`
	RegionName string `db:"region_name" gorm:"column:region_name"`
	SystemID   int64  `db:"system_id" gorm:"column:system_id"`
	SystemName string `db:"system_name" gorm:"column:system_name"`
}

type stationRow struct {
	StationID   int64  `db:"station_id" gorm:"column:station_id"`
	StationName string `db:"station_name" gorm:"column:station_name"`
	SystemID    int64  `db:"system_id" gorm:"column:system_id"`
	RegionID    int64  `db:"region_id" gorm:"column:region_id"`
}

type typeRow struct {
	TypeID   int64    `db:"type_id" gorm:"column:type_id"`
	TypeName string   `db:"type_name" gorm:"column:type_name"`
	GroupID  int64    `db:"group_id" gorm:"column:group_id"`
	Volume   *float64 `db:"volume" gorm:"column:volume"`
}
