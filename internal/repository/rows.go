package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"patient-portal/internal/domain/entity"
)

var errNoRowReturned = errors.New("insert returned no row")

// SQLite hands back registeredAt as text when the declared column type is
// not visible to the driver, as with RETURNING.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
}

// scanRows materializes a result set as one column->value map per row,
// keeping driver values as-is.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// scanInsertedPatient reads the single row produced by an INSERT ... RETURNING
// and closes rows.
func scanInsertedPatient(rows *sql.Rows) (*entity.Patient, error) {
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errNoRowReturned
	}

	var (
		patient    entity.Patient
		contact    sql.NullString
		address    sql.NullString
		registered interface{}
	)
	if err := rows.Scan(&patient.ID, &patient.FullName, &patient.DateOfBirth, &contact, &address, &patient.Gender, &registered); err != nil {
		return nil, err
	}
	if contact.Valid {
		patient.ContactNumber = &contact.String
	}
	if address.Valid {
		patient.Address = &address.String
	}

	registeredAt, err := parseTimestamp(registered)
	if err != nil {
		return nil, err
	}
	patient.RegisteredAt = registeredAt

	return &patient, nil
}

func parseTimestamp(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case []byte:
		return parseTimestampText(string(v))
	case string:
		return parseTimestampText(v)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported registeredAt value %T", value)
	}
}

func parseTimestampText(text string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized registeredAt value %q", text)
}
