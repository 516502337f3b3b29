/*
   Copyright 2025 The Velk Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Well-known class UIDs, derived from the class names the registry knows
// at boot.
var (
	// ClassProperty identifies the property class.
	ClassProperty = UidFromName("velk.Property")
	// ClassEvent identifies the event class.
	ClassEvent = UidFromName("velk.Event")
	// ClassFunction identifies the function class.
	ClassFunction = UidFromName("velk.Function")
	// ClassHive identifies the hive class.
	ClassHive = UidFromName("velk.Hive")
	// ClassHiveStore identifies the hive store class.
	ClassHiveStore = UidFromName("velk.HiveStore")
	// ClassRawHive identifies the raw hive container.
	ClassRawHive = UidFromName("velk.RawHive")
	// ClassHivePlugin identifies the built-in hive plugin.
	ClassHivePlugin = UidFromName("velk.HivePlugin")
)

// Interface UIDs for the core capability set.
var (
	// InterfaceObject identifies the Object capability.
	InterfaceObject = UidFromName("velk.IObject")
	// InterfaceAny identifies the Any capability.
	InterfaceAny = UidFromName("velk.IAny")
	// InterfaceProperty identifies the Property capability.
	InterfaceProperty = UidFromName("velk.IProperty")
	// InterfacePropertyInternal identifies the PropertyInternal capability.
	InterfacePropertyInternal = UidFromName("velk.IPropertyInternal")
	// InterfaceEvent identifies the Event capability.
	InterfaceEvent = UidFromName("velk.IEvent")
	// InterfaceFunction identifies the Function capability.
	InterfaceFunction = UidFromName("velk.IFunction")
	// InterfaceFunctionInternal identifies the FunctionInternal capability.
	InterfaceFunctionInternal = UidFromName("velk.IFunctionInternal")
	// InterfaceMetadata identifies the Metadata capability.
	InterfaceMetadata = UidFromName("velk.IMetadata")
	// InterfacePropertyState identifies the PropertyState capability.
	InterfacePropertyState = UidFromName("velk.IPropertyState")
	// InterfaceHive identifies the Hive capability.
	InterfaceHive = UidFromName("velk.IHive")
	// InterfaceHiveStore identifies the HiveStore capability.
	InterfaceHiveStore = UidFromName("velk.IHiveStore")
)
