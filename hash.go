package union

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// deepHashLimit bounds the traversal of pointers of non-comparable values, cyclic structures
// stop there.
const deepHashLimit = 32

// hashOf hashes value with the equality used by equal: Hash method for values having Equal,
// == for comparable values and reflect.DeepEqual for the rest.
func hashOf[T any](slot byte, value T) uint64 {
	d := xxhash.New()
	h := &hasher{d: d}
	h.writeByte(slot)
	h.writeString(reflect.TypeFor[T]().String())

	if _, ok := any(value).(interface{ Equal(T) bool }); ok {
		if hv, ok := any(value).(interface{ Hash() uint64 }); ok {
			h.writeUint(hv.Hash())
		}
		return d.Sum64()
	}

	v := reflect.ValueOf(&value).Elem()
	if v.Comparable() {
		h.shallow(v)
	} else {
		h.deep(v, 0)
	}
	return d.Sum64()
}

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *hasher) writeByte(b byte) {
	h.buf[0] = b
	_, _ = h.d.Write(h.buf[:1])
}

func (h *hasher) writeUint(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) writeString(s string) {
	h.writeUint(uint64(len(s)))
	_, _ = h.d.WriteString(s)
}

func (h *hasher) writeFloat(f float64) {
	if f == 0 {
		// -0 == +0
		f = 0
	}
	h.writeUint(math.Float64bits(f))
}

// shallow hashes a comparable value consistently with ==
func (h *hasher) shallow(v reflect.Value) {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			h.writeByte(1)
		} else {
			h.writeByte(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.writeUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.writeUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		h.writeFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		h.writeFloat(real(c))
		h.writeFloat(imag(c))
	case reflect.String:
		h.writeString(v.String())
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		h.writeUint(uint64(v.Pointer()))
	case reflect.Interface:
		if v.IsNil() {
			h.writeByte(0)
			return
		}
		h.writeByte(1)
		h.writeString(v.Elem().Type().String())
		h.shallow(v.Elem())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			h.shallow(v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).Name == "_" {
				continue
			}
			h.shallow(v.Field(i))
		}
	}
}

// deep hashes a value consistently with reflect.DeepEqual
func (h *hasher) deep(v reflect.Value, depth int) {
	if depth > deepHashLimit {
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			h.writeByte(0)
			return
		}
		h.writeByte(1)
		h.deep(v.Elem(), depth+1)
	case reflect.Interface:
		if v.IsNil() {
			h.writeByte(0)
			return
		}
		h.writeByte(1)
		h.writeString(v.Elem().Type().String())
		h.deep(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		h.writeUint(uint64(v.Len()))
		for i := 0; i < v.Len(); i++ {
			h.deep(v.Index(i), depth+1)
		}
	case reflect.Map:
		// entries are combined in an order independent way
		var sum uint64
		iter := v.MapRange()
		for iter.Next() {
			entry := &hasher{d: xxhash.New()}
			entry.deep(iter.Key(), depth+1)
			entry.deep(iter.Value(), depth+1)
			sum += entry.d.Sum64()
		}
		h.writeUint(uint64(v.Len()))
		h.writeUint(sum)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).Name == "_" {
				continue
			}
			h.deep(v.Field(i), depth+1)
		}
	case reflect.Func:
		// only nil functions are deeply equal
		h.writeByte(0)
	default:
		h.shallow(v)
	}
}
