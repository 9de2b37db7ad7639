package io

// Namespace is the GrAF XML namespace.
const Namespace = "http://www.xces.org/ns/GrAF/1.0/"

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Element names.
const (
	elGraph            = "graph"
	elHeader           = "header"
	elTagsDecl         = "tagsDecl"
	elTagUsage         = "tagUsage"
	elRoots            = "roots"
	elRoot             = "root"
	elDependencies     = "dependencies"
	elDependsOn        = "dependsOn"
	elAnnotationSets   = "annotationSets"
	elAnnotationSet    = "annotationSet"
	elAnnotationSpaces = "annotationSpaces"
	elAnnotationSpace  = "annotationSpace"
	elAnnotationGroup  = "as"
	elRegion           = "region"
	elNode             = "node"
	elLink             = "link"
	elEdge             = "edge"
	elAnnotation       = "a"
	elFeatureStructure = "fs"
	elFeature          = "f"
)

// Attribute names.
const (
	atID       = "xml:id"
	atRoot     = "root"
	atTargets  = "targets"
	atAnchors  = "anchors"
	atFrom     = "from"
	atTo       = "to"
	atLabel    = "label"
	atRef      = "ref"
	atSpace    = "as"
	atType     = "type"
	atName     = "name"
	atValue    = "value"
	atFID      = "f.id"
	atSpaceID  = "as.id"
	atSpaceTyp = "as.type"
	atGI       = "gi"
	atOccurs   = "occurs"
)
