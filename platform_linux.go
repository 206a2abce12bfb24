package main

const platformSurfaceExtension = "VK_KHR_xlib_surface"
