// Copyright 2022 Cerno Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rule

import (
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	convey.Convey("replacement registry", t, func() {
		r := NewRegistry()

		convey.Convey("starts empty", func() {
			convey.So(r.Len(), convey.ShouldEqual, 0)
			convey.So(r.Snapshot(), convey.ShouldBeEmpty)
		})

		convey.Convey("register and lookup", func() {
			r.Register("sqrt", "custom_sqrt")
			got, ok := r.Lookup("sqrt")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, "custom_sqrt")
			_, ok = r.Lookup("abs")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("re-registering overwrites", func() {
			r.Register("sqrt", "a")
			r.Register("sqrt", "b")
			got, _ := r.Lookup("sqrt")
			convey.So(got, convey.ShouldEqual, "b")
			convey.So(r.Len(), convey.ShouldEqual, 1)
		})

		convey.Convey("unknown replacement names are accepted", func() {
			r.Register("abs", "does_not_exist_anywhere")
			convey.So(r.Len(), convey.ShouldEqual, 1)
		})

		convey.Convey("self replacement is accepted", func() {
			r.Register("abs", "abs")
			got, _ := r.Lookup("abs")
			convey.So(got, convey.ShouldEqual, "abs")
		})

		convey.Convey("clear removes everything", func() {
			r.Register("a", "b")
			r.Register("c", "d")
			r.Clear()
			convey.So(r.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("snapshot is isolated from later mutation", func() {
			r.Register("a", "b")
			snap := r.Snapshot()
			r.Register("a", "c")
			r.Register("x", "y")
			convey.So(snap, convey.ShouldResemble, map[string]string{"a": "b"})

			snap["a"] = "mutated"
			got, _ := r.Lookup("a")
			convey.So(got, convey.ShouldEqual, "c")
		})
	})
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Register("f", "g")
				r.Lookup("f")
				r.Snapshot()
				r.Len()
			}
		}()
	}
	wg.Wait()
	got, ok := r.Lookup("f")
	if !ok || got != "g" {
		t.Fatalf("unexpected registry state: %q %v", got, ok)
	}
}
