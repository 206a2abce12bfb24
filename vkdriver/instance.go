package vkdriver

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/ironsmile/vkframe/gpu"
)

func (d *Driver) AvailableLayers() ([]string, error) {
	var count uint32
	if err := check(vk.EnumerateInstanceLayerProperties(&count, nil), "counting instance layers"); err != nil {
		return nil, err
	}

	layers := make([]vk.LayerProperties, count)
	if err := check(vk.EnumerateInstanceLayerProperties(&count, layers), "enumerating instance layers"); err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, layer := range layers[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func (d *Driver) AvailableExtensions() ([]string, error) {
	var count uint32
	res := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	if err := check(res, "counting instance extensions"); err != nil {
		return nil, err
	}

	extensions := make([]vk.ExtensionProperties, count)
	res = vk.EnumerateInstanceExtensionProperties("", &count, extensions)
	if err := check(res, "enumerating instance extensions"); err != nil {
		return nil, err
	}

	names := make([]string, 0, count)
	for _, ext := range extensions[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func (d *Driver) CreateInstance(info gpu.InstanceInfo) (gpu.Instance, error) {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   cstring(info.ApplicationName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        cstring(info.EngineName),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.ApiVersion10,
	}

	layers := cstrings(info.Layers)
	extensions := cstrings(info.Extensions)
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := check(vk.CreateInstance(&createInfo, nil, &instance), "creating instance"); err != nil {
		return 0, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return 0, errors.Wrap(err, "loading instance functions")
	}

	return gpu.Instance(put(d, d.instances, instance)), nil
}

func (d *Driver) DestroyInstance(instance gpu.Instance) {
	if obj, ok := take(d.instances, gpu.Handle(instance)); ok {
		vk.DestroyInstance(obj, nil)
	}
}

func (d *Driver) CreateDebugCallback(instance gpu.Instance, sink gpu.DiagnosticSink) (gpu.DebugCallback, error) {
	callback := func(
		flags vk.DebugReportFlags,
		objectType vk.DebugReportObjectType,
		object uint64,
		location uint,
		messageCode int32,
		pLayerPrefix string,
		pMessage string,
		pUserData unsafe.Pointer,
	) vk.Bool32 {
		sink.Report(severity(flags), "["+pLayerPrefix+"] "+pMessage)
		return vk.Bool32(vk.False)
	}

	createInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(
			vk.DebugReportErrorBit |
				vk.DebugReportWarningBit |
				vk.DebugReportPerformanceWarningBit,
		),
		PfnCallback: callback,
	}

	var dbg vk.DebugReportCallback
	res := vk.CreateDebugReportCallback(d.instances[gpu.Handle(instance)], &createInfo, nil, &dbg)
	if err := check(res, "creating debug report callback"); err != nil {
		return 0, err
	}
	return gpu.DebugCallback(put(d, d.debugCallbacks, dbg)), nil
}

func (d *Driver) DestroyDebugCallback(instance gpu.Instance, callback gpu.DebugCallback) {
	if obj, ok := take(d.debugCallbacks, gpu.Handle(callback)); ok {
		vk.DestroyDebugReportCallback(d.instances[gpu.Handle(instance)], obj, nil)
	}
}

func (d *Driver) CreateSurface(instance gpu.Instance, source gpu.SurfaceSource) (gpu.Surface, error) {
	surfacePtr, err := source.CreateWindowSurface(d.instances[gpu.Handle(instance)], nil)
	if err != nil {
		return 0, errors.Wrap(err, "creating window surface")
	}
	return gpu.Surface(put(d, d.surfaces, vk.SurfaceFromPointer(surfacePtr))), nil
}

func (d *Driver) DestroySurface(instance gpu.Instance, surface gpu.Surface) {
	if obj, ok := take(d.surfaces, gpu.Handle(surface)); ok {
		vk.DestroySurface(d.instances[gpu.Handle(instance)], obj, nil)
	}
}

func (d *Driver) PhysicalDevices(instance gpu.Instance) ([]gpu.PhysicalDevice, error) {
	inst := d.instances[gpu.Handle(instance)]

	var count uint32
	if err := check(vk.EnumeratePhysicalDevices(inst, &count, nil), "counting physical devices"); err != nil {
		return nil, err
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := check(vk.EnumeratePhysicalDevices(inst, &count, devices), "enumerating physical devices"); err != nil {
		return nil, err
	}

	out := make([]gpu.PhysicalDevice, 0, count)
	for _, pd := range devices[:count] {
		out = append(out, gpu.PhysicalDevice(put(d, d.physicalDevices, pd)))
	}
	return out, nil
}

func (d *Driver) AdapterProperties(adapter gpu.PhysicalDevice) gpu.AdapterProperties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.physicalDevices[gpu.Handle(adapter)], &properties)
	properties.Deref()

	return gpu.AdapterProperties{
		Name: vk.ToString(properties.DeviceName[:]),
		Type: gpu.AdapterType(properties.DeviceType),
	}
}

func (d *Driver) QueueFamilies(adapter gpu.PhysicalDevice) []gpu.QueueFamily {
	pd := d.physicalDevices[gpu.Handle(adapter)]

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)

	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, families)

	out := make([]gpu.QueueFamily, 0, count)
	for i, family := range families[:count] {
		family.Deref()
		out = append(out, gpu.QueueFamily{
			Index: uint32(i),
			Flags: gpu.QueueFlags(family.QueueFlags),
			Count: family.QueueCount,
		})
	}
	return out
}

func (d *Driver) SurfaceSupport(adapter gpu.PhysicalDevice, family uint32, surface gpu.Surface) (bool, error) {
	var hasPresent vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(
		d.physicalDevices[gpu.Handle(adapter)],
		family,
		d.surfaces[gpu.Handle(surface)],
		&hasPresent,
	)
	if err := check(res, "querying surface support"); err != nil {
		return false, err
	}
	return hasPresent.B(), nil
}

func (d *Driver) SurfaceFormats(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.SurfaceFormat, error) {
	pd := d.physicalDevices[gpu.Handle(adapter)]
	sf := d.surfaces[gpu.Handle(surface)]

	var count uint32
	if err := check(vk.GetPhysicalDeviceSurfaceFormats(pd, sf, &count, nil), "counting surface formats"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	formats := make([]vk.SurfaceFormat, count)
	if err := check(vk.GetPhysicalDeviceSurfaceFormats(pd, sf, &count, formats), "querying surface formats"); err != nil {
		return nil, err
	}

	out := make([]gpu.SurfaceFormat, 0, count)
	for _, format := range formats[:count] {
		format.Deref()
		out = append(out, gpu.SurfaceFormat{
			Format:     gpu.Format(format.Format),
			ColorSpace: gpu.ColorSpace(format.ColorSpace),
		})
	}
	return out, nil
}

func (d *Driver) SurfaceCapabilities(adapter gpu.PhysicalDevice, surface gpu.Surface) (gpu.SurfaceCapabilities, error) {
	var capabilities vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(
		d.physicalDevices[gpu.Handle(adapter)],
		d.surfaces[gpu.Handle(surface)],
		&capabilities,
	)
	if err := check(res, "querying surface capabilities"); err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	capabilities.Deref()

	return gpu.SurfaceCapabilities{
		MinImageCount:       capabilities.MinImageCount,
		MaxImageCount:       capabilities.MaxImageCount,
		CurrentExtent:       fromExtent(capabilities.CurrentExtent),
		MinImageExtent:      fromExtent(capabilities.MinImageExtent),
		MaxImageExtent:      fromExtent(capabilities.MaxImageExtent),
		SupportedTransforms: gpu.SurfaceTransform(capabilities.SupportedTransforms),
		CurrentTransform:    gpu.SurfaceTransform(capabilities.CurrentTransform),
	}, nil
}

func (d *Driver) SurfacePresentModes(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.PresentMode, error) {
	pd := d.physicalDevices[gpu.Handle(adapter)]
	sf := d.surfaces[gpu.Handle(surface)]

	var count uint32
	if err := check(vk.GetPhysicalDeviceSurfacePresentModes(pd, sf, &count, nil), "counting present modes"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	modes := make([]vk.PresentMode, count)
	if err := check(vk.GetPhysicalDeviceSurfacePresentModes(pd, sf, &count, modes), "querying present modes"); err != nil {
		return nil, err
	}

	out := make([]gpu.PresentMode, 0, count)
	for _, mode := range modes[:count] {
		out = append(out, gpu.PresentMode(mode))
	}
	return out, nil
}

func (d *Driver) CreateDevice(adapter gpu.PhysicalDevice, info gpu.DeviceInfo) (gpu.Device, error) {
	pd := d.physicalDevices[gpu.Handle(adapter)]

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(pd, &features)

	layers := cstrings(info.Layers)
	extensions := cstrings(info.Extensions)
	createInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: info.QueueFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var device vk.Device
	if err := check(vk.CreateDevice(pd, &createInfo, nil, &device), "creating logical device"); err != nil {
		return 0, err
	}
	return gpu.Device(put(d, d.devices, device)), nil
}
