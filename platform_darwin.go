package main

const platformSurfaceExtension = "VK_MVK_macos_surface"
