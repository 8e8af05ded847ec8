package scene

import (
	"reflect"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/seqsim/internal/host"
)

var (
	floatType = reflect.TypeOf(float64(0))
	vec3Type  = reflect.TypeOf(mgl64.Vec3{})
	vec4Type  = reflect.TypeOf(mgl64.Vec4{})
)

// field is a settable struct field found by a dotted path.
type field[T any] struct {
	v reflect.Value
}

func (f field[T]) Get() T  { return f.v.Interface().(T) }
func (f field[T]) Set(v T) { f.v.Set(reflect.ValueOf(v)) }

// resolvePath walks "component.Field.Sub" from the named component.
func (w *World) resolvePath(e Entity, path string, want reflect.Type) (reflect.Value, bool) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return reflect.Value{}, false
	}
	comp, ok := w.Component(e, parts[0])
	if !ok {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(comp)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, false
	}
	v = v.Elem()
	for _, name := range parts[1:] {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		v = v.FieldByName(name)
		if !v.IsValid() {
			return reflect.Value{}, false
		}
	}
	if v.Type() != want || !v.CanSet() {
		return reflect.Value{}, false
	}
	return v, true
}

func resolve[T any](a *Actor, name string, want reflect.Type) (host.Property[T], bool) {
	v, ok := a.w.resolvePath(a.e, name, want)
	if !ok {
		return nil, false
	}
	return field[T]{v}, true
}

func (a *Actor) ResolveFloat(name string) (host.Property[float64], bool) {
	return resolve[float64](a, name, floatType)
}

func (a *Actor) ResolveVector(name string) (host.Property[mgl64.Vec3], bool) {
	return resolve[mgl64.Vec3](a, name, vec3Type)
}

func (a *Actor) ResolveColor(name string) (host.Property[mgl64.Vec4], bool) {
	return resolve[mgl64.Vec4](a, name, vec4Type)
}
