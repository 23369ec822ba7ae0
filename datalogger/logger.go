package datalogger

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"
)

type DataLogger[T any] interface {
	LogRecord(record T)
	Export() error
	Close() error
}

// CSVDataLogger buffers records of T and writes them out as CSV on
// Export. Column names come from the `Description` struct tag when
// present, the field name otherwise.
type CSVDataLogger[T any] struct {
	mut         *sync.Mutex
	data        []T
	isOpen      bool
	destination io.WriteCloser
}

func CreateCSVDataLogger[T any](filename string) (DataLogger[T], error) {
	destination, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVDataLogger[T]{&sync.Mutex{}, make([]T, 0), true, destination}, nil
}

func (logger *CSVDataLogger[T]) LogRecord(record T) {
	logger.mut.Lock()
	defer logger.mut.Unlock()
	logger.data = append(logger.data, record)
}

func (logger *CSVDataLogger[T]) Export() error {
	logger.mut.Lock()
	defer logger.mut.Unlock()
	if !logger.isOpen {
		return fmt.Errorf("export on a closed data logger")
	}

	t := new(T)
	visibleFields := reflect.VisibleFields(reflect.TypeOf(t).Elem())

	columns := make([]string, 0, len(visibleFields))
	for _, v := range visibleFields {
		columnName := v.Name
		if description, success := v.Tag.Lookup("Description"); success {
			columnName = description
		}
		columns = append(columns, columnName)
	}
	if _, err := fmt.Fprintf(logger.destination, "%s\n", strings.Join(columns, ", ")); err != nil {
		return err
	}

	for _, d := range logger.data {
		fields := make([]string, 0, len(visibleFields))
		data := reflect.ValueOf(d)
		for _, v := range visibleFields {
			fields = append(fields, fmt.Sprintf("%v", data.FieldByIndex(v.Index)))
		}
		if _, err := fmt.Fprintf(logger.destination, "%s\n", strings.Join(fields, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func (logger *CSVDataLogger[T]) Close() error {
	logger.mut.Lock()
	defer logger.mut.Unlock()
	if !logger.isOpen {
		return nil
	}
	logger.isOpen = false
	return logger.destination.Close()
}
