package glowv1

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Struct fields map to message fields by their json name. time.Time maps to
// google.protobuf.Timestamp, with the zero time left unset.

var (
	timeType      = reflect.TypeOf(time.Time{})
	timestampName = (&timestamppb.Timestamp{}).ProtoReflect().Descriptor().FullName()
)

// Encode builds the glow.v1 message named after src's type.
func Encode(src any) (*dynamicpb.Message, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, errors.New("glowv1: nil message")
		}
		v = v.Elem()
	}
	md, err := Message(src)
	if err != nil {
		return nil, err
	}
	m := dynamicpb.NewMessage(md)
	if err := encodeInto(m, v); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode copies m into the struct dst points to.
func Decode(m proto.Message, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("glowv1: decode into %T", dst)
	}
	return decodeInto(m.ProtoReflect(), v.Elem())
}

func encodeInto(m protoreflect.Message, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fd, err := fieldFor(m.Descriptor(), t.Field(i))
		if err != nil {
			return err
		}
		if fd == nil {
			continue
		}
		fv := v.Field(i)

		switch {
		case fd.IsList():
			if fv.Len() == 0 {
				continue
			}
			list := m.Mutable(fd).List()
			for j := 0; j < fv.Len(); j++ {
				if fd.Kind() == protoreflect.MessageKind {
					elem := list.NewElement()
					if err := encodeInto(elem.Message(), fv.Index(j)); err != nil {
						return err
					}
					list.Append(elem)
					continue
				}
				val, err := scalarValue(fd, fv.Index(j))
				if err != nil {
					return err
				}
				list.Append(val)
			}
		case isTimestamp(fd):
			ts, ok := fv.Interface().(time.Time)
			if !ok {
				return fmt.Errorf("glowv1: field %s needs time.Time, got %s", fd.FullName(), fv.Type())
			}
			if ts.IsZero() {
				continue
			}
			tm := m.Mutable(fd).Message()
			fields := tm.Descriptor().Fields()
			tm.Set(fields.ByName("seconds"), protoreflect.ValueOfInt64(ts.Unix()))
			tm.Set(fields.ByName("nanos"), protoreflect.ValueOfInt32(int32(ts.Nanosecond())))
		case fd.Kind() == protoreflect.MessageKind:
			if err := encodeInto(m.Mutable(fd).Message(), fv); err != nil {
				return err
			}
		default:
			val, err := scalarValue(fd, fv)
			if err != nil {
				return err
			}
			m.Set(fd, val)
		}
	}
	return nil
}

func decodeInto(m protoreflect.Message, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fd, err := fieldFor(m.Descriptor(), t.Field(i))
		if err != nil {
			return err
		}
		if fd == nil {
			continue
		}
		fv := v.Field(i)

		switch {
		case fd.IsList():
			list := m.Get(fd).List()
			if list.Len() == 0 {
				fv.Set(reflect.Zero(fv.Type()))
				continue
			}
			out := reflect.MakeSlice(fv.Type(), list.Len(), list.Len())
			for j := 0; j < list.Len(); j++ {
				if fd.Kind() == protoreflect.MessageKind {
					err = decodeInto(list.Get(j).Message(), out.Index(j))
				} else {
					err = setScalar(fd, out.Index(j), list.Get(j))
				}
				if err != nil {
					return err
				}
			}
			fv.Set(out)
		case isTimestamp(fd):
			if fv.Type() != timeType {
				return fmt.Errorf("glowv1: field %s needs time.Time, got %s", fd.FullName(), fv.Type())
			}
			if !m.Has(fd) {
				fv.Set(reflect.ValueOf(time.Time{}))
				continue
			}
			tm := m.Get(fd).Message()
			fields := tm.Descriptor().Fields()
			secs := tm.Get(fields.ByName("seconds")).Int()
			nanos := tm.Get(fields.ByName("nanos")).Int()
			fv.Set(reflect.ValueOf(time.Unix(secs, nanos).UTC()))
		case fd.Kind() == protoreflect.MessageKind:
			if err := decodeInto(m.Get(fd).Message(), fv); err != nil {
				return err
			}
		default:
			if err := setScalar(fd, fv, m.Get(fd)); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldFor returns nil for struct fields that are not part of the message
// contract: unexported or tagged json:"-".
func fieldFor(md protoreflect.MessageDescriptor, sf reflect.StructField) (protoreflect.FieldDescriptor, error) {
	if !sf.IsExported() {
		return nil, nil
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return nil, nil
	}
	fd := md.Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil, fmt.Errorf("glowv1: %s has no field %s", md.FullName(), name)
	}
	return fd, nil
}

func isTimestamp(fd protoreflect.FieldDescriptor) bool {
	return fd.Kind() == protoreflect.MessageKind && fd.Message().FullName() == timestampName
}

func scalarValue(fd protoreflect.FieldDescriptor, v reflect.Value) (protoreflect.Value, error) {
	switch fd.Kind() {
	case protoreflect.StringKind:
		if v.Kind() == reflect.String {
			return protoreflect.ValueOfString(v.String()), nil
		}
	case protoreflect.DoubleKind:
		if v.CanFloat() {
			return protoreflect.ValueOfFloat64(v.Float()), nil
		}
	case protoreflect.Int32Kind:
		if v.CanInt() {
			return protoreflect.ValueOfInt32(int32(v.Int())), nil
		}
	case protoreflect.BoolKind:
		if v.Kind() == reflect.Bool {
			return protoreflect.ValueOfBool(v.Bool()), nil
		}
	}
	return protoreflect.Value{}, fmt.Errorf("glowv1: field %s (%s) cannot hold %s", fd.FullName(), fd.Kind(), v.Type())
}

func setScalar(fd protoreflect.FieldDescriptor, dst reflect.Value, val protoreflect.Value) error {
	switch {
	case fd.Kind() == protoreflect.StringKind && dst.Kind() == reflect.String:
		dst.SetString(val.String())
	case fd.Kind() == protoreflect.DoubleKind && dst.CanFloat():
		dst.SetFloat(val.Float())
	case fd.Kind() == protoreflect.Int32Kind && dst.CanInt():
		dst.SetInt(val.Int())
	case fd.Kind() == protoreflect.BoolKind && dst.Kind() == reflect.Bool:
		dst.SetBool(val.Bool())
	default:
		return fmt.Errorf("glowv1: field %s (%s) cannot fill %s", fd.FullName(), fd.Kind(), dst.Type())
	}
	return nil
}
