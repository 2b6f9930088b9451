package expense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// recordDTO is the persisted shape of a record inside the gist file.
type recordDTO struct {
	Category string      `json:"tipo_gasto"`
	Amount   json.Number `json:"valor"`
	Date     string      `json:"data"`
}

// Snapshot remembers the stored text of decoded records. Records written back unchanged
// keep that text byte for byte, including escapes and number formatting.
type Snapshot struct {
	elements map[Record][]json.RawMessage
	skipped  int
}

// Skipped is the number of stored rows that could not be read as records.
func (s *Snapshot) Skipped() int {
	if s == nil {
		return 0
	}
	return s.skipped
}

// DecodeRecords parses the content of the gist file. The content must be a JSON array,
// an empty array yields an empty, non-nil slice.
func DecodeRecords(content []byte) ([]Record, error) {
	records, _, err := DecodeSnapshot(content)
	return records, err
}

// DecodeSnapshot is DecodeRecords that also returns the stored text of every record.
// Rows that are null or fail validation are skipped with a warning.
func DecodeSnapshot(content []byte) ([]Record, *Snapshot, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(content, &elements); err != nil {
		return nil, nil, fmt.Errorf("failed to decode records: %w", err)
	}
	if elements == nil {
		return nil, nil, fmt.Errorf("failed to decode records: content is not a JSON array")
	}

	snapshot := &Snapshot{elements: make(map[Record][]json.RawMessage)}
	records := make([]Record, 0, len(elements))
	for i, element := range elements {
		record, err := decodeElement(element)
		if err != nil {
			log.Warnf("Skipping stored record %d: %v", i, err)
			snapshot.skipped++
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, element); err != nil {
			return nil, nil, fmt.Errorf("failed to decode record %d: %w", i, err)
		}
		snapshot.elements[record] = append(snapshot.elements[record], compact.Bytes())
		records = append(records, record)
	}
	return records, snapshot, nil
}

// EncodeRecords serialises records as a JSON array indented by two spaces.
func EncodeRecords(records []Record) ([]byte, error) {
	return (*Snapshot)(nil).Encode(records)
}

// Encode serialises records, reusing the stored text of records present in the snapshot.
// A nil snapshot encodes every record afresh.
func (s *Snapshot) Encode(records []Record) ([]byte, error) {
	var available map[Record][]json.RawMessage
	if s != nil {
		available = make(map[Record][]json.RawMessage, len(s.elements))
		for record, raws := range s.elements {
			available[record] = raws
		}
	}

	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, record := range records {
		if i > 0 {
			compact.WriteByte(',')
		}
		if raws := available[record]; len(raws) > 0 {
			compact.Write(raws[0])
			available[record] = raws[1:]
			continue
		}
		element, err := encodeElement(record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		compact.Write(element)
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return out.Bytes(), nil
}

func decodeElement(element json.RawMessage) (Record, error) {
	if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
		return Record{}, fmt.Errorf("null row")
	}
	decoder := json.NewDecoder(bytes.NewReader(element))
	decoder.UseNumber()
	var dto recordDTO
	if err := decoder.Decode(&dto); err != nil {
		return Record{}, err
	}
	record, err := dtoToRecord(dto)
	if err != nil {
		return Record{}, err
	}
	if err := record.Validate(); err != nil {
		return Record{}, err
	}
	return record, nil
}

func encodeElement(record Record) ([]byte, error) {
	var b bytes.Buffer
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(recordToDTO(record)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}

func dtoToRecord(dto recordDTO) (Record, error) {
	category, err := ParseCategory(dto.Category)
	if err != nil {
		return Record{}, err
	}
	value, err := dto.Amount.Float64()
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidAmount, dto.Amount)
	}
	amount, err := MoneyFromFloat(value)
	if err != nil {
		return Record{}, err
	}
	date, err := ParseDate(dto.Date)
	if err != nil {
		return Record{}, err
	}
	return Record{Category: category, Amount: amount, Date: date}, nil
}

func recordToDTO(record Record) recordDTO {
	return recordDTO{
		Category: string(record.Category),
		Amount:   json.Number(strconv.FormatFloat(record.Amount.Float(), 'f', -1, 64)),
		Date:     record.Date.String(),
	}
}
