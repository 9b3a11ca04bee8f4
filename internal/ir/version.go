package ir

// Version is the warren release, reported by "warren --version".
const Version = "0.1.0"
