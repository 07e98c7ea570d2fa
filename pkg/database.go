package cluster

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// DBCalibration serves the channel mapping and delimiter tables from the run
// database. Both tables are run-ranged; rows whose channel was never
// measured carry NULL and are excluded by the queries.
type DBCalibration struct {
	db        *sqlx.DB
	runNumber int
}

func NewDBCalibration(db *sqlx.DB, runNumber int) *DBCalibration {
	return &DBCalibration{db: db, runNumber: runNumber}
}

var channelMappingTables = map[Group]string{
	Wires: "WireChannelMapping",
	Grids: "GridChannelMapping",
}

var delimiterTables = map[Group]string{
	Wires: "WireDelimiters",
	Grids: "GridDelimiters",
}

type channelMappingEntry struct {
	Position int `db:"Position"`
	Channel  int `db:"Channel"`
}

type delimiterEntry struct {
	Position int     `db:"Position"`
	Start    float64 `db:"Start"`
	Stop     float64 `db:"Stop"`
}

func (c *DBCalibration) ChannelMapping(group Group) ([]int32, error) {
	query := "SELECT Position, Channel FROM %s WHERE MinRun <= %d AND MaxRun >= %d AND Channel IS NOT NULL ORDER BY Position"
	query = fmt.Sprintf(query, channelMappingTables[group], c.runNumber, c.runNumber)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading %v channel mapping from database", group)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := c.db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}

	mapping := make([]int32, 0)
	for rows.Next() {
		result := channelMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		mapping = append(mapping, int32(result.Channel))
	}
	return mapping, nil
}

func (c *DBCalibration) Delimiters(group Group) ([]DelimiterRange, error) {
	query := "SELECT Position, Start, Stop FROM %s WHERE MinRun <= %d AND MaxRun >= %d AND Start IS NOT NULL ORDER BY Position"
	query = fmt.Sprintf(query, delimiterTables[group], c.runNumber, c.runNumber)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading %v delimiters from database", group)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := c.db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}

	ranges := make([]DelimiterRange, 0)
	for rows.Next() {
		result := delimiterEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		ranges = append(ranges, DelimiterRange{Start: result.Start, Stop: result.Stop})
	}
	return ranges, nil
}
