package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// TIFF tag numbers and field types used by readTIFFDPI.
const (
	tagXResolution    = 282
	tagYResolution    = 283
	tagResolutionUnit = 296

	typeShort    = 3
	typeRational = 5

	unitCentimetre = 3
)

var errNoResolution = errors.New("no resolution tags")

// readTIFFDPI reads the resolution of the first image directory of a TIFF file.
func readTIFFDPI(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return tiffDPI(f)
}

func tiffDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a TIFF file")
	}

	if _, err := r.Seek(int64(order.Uint32(header[4:8])), io.SeekStart); err != nil {
		return 0, err
	}
	var count uint16
	if err := binary.Read(r, order, &count); err != nil {
		return 0, err
	}

	entries := make([]byte, 12*int(count))
	if _, err := io.ReadFull(r, entries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var err error
	unit := uint16(2)
	for i := 0; i < int(count); i++ {
		e := entries[i*12 : (i+1)*12]
		tag, typ := order.Uint16(e[0:2]), order.Uint16(e[2:4])
		switch {
		case tag == tagXResolution && typ == typeRational:
			xRes, err = rational(r, int64(order.Uint32(e[8:12])), order)
		case tag == tagYResolution && typ == typeRational:
			yRes, err = rational(r, int64(order.Uint32(e[8:12])), order)
		case tag == tagResolutionUnit && typ == typeShort:
			unit = order.Uint16(e[8:10])
		}
		if err != nil {
			return 0, err
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, errNoResolution
	}
	if unit == unitCentimetre {
		dpi *= 2.54
	}
	return dpi, nil
}

func rational(r io.ReadSeeker, offset int64, order binary.ByteOrder) (float64, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	var v [2]uint32
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	if v[1] == 0 {
		return 0, nil
	}
	return float64(v[0]) / float64(v[1]), nil
}
