package main

const platformSurfaceExtension = "VK_KHR_win32_surface"
