package schema

import (
	"fmt"
	"sort"
	"strings"

	"ngc-protoview/packages/compiler/src/core"
)

const (
	boolean = "boolean"
	number  = "number"
	str     = "string"
	object  = "object"
)

// domSchema encodes the bindable properties of known DOM elements.
//
// Each entry has the form:
//
//	tag1,tag2,...^parent|prop1,!prop2,#prop3,%prop4,*event
//
// A tag listed in the first part inherits every property of parent, which has
// to be declared by an earlier entry. Property prefixes give the value type:
// '!' boolean, '#' number, '%' object and no prefix a string. Names prefixed
// with '*' are events; they are not bindable as properties. Abstract types are
// wrapped in brackets and never match a tag in a template.
var domSchema = []string{
	"[Element]|textContent,%ariaAtomic,%ariaAutoComplete,%ariaBusy,%ariaChecked,%ariaColCount,%ariaColIndex,%ariaColSpan,%ariaCurrent,%ariaDescription,%ariaDisabled,%ariaExpanded,%ariaHasPopup,%ariaHidden,%ariaKeyShortcuts,%ariaLabel,%ariaLevel,%ariaLive,%ariaModal,%ariaMultiLine,%ariaMultiSelectable,%ariaOrientation,%ariaPlaceholder,%ariaPosInSet,%ariaPressed,%ariaReadOnly,%ariaRelevant,%ariaRequired,%ariaRoleDescription,%ariaRowCount,%ariaRowIndex,%ariaRowSpan,%ariaSelected,%ariaSetSize,%ariaSort,%ariaValueMax,%ariaValueMin,%ariaValueNow,%ariaValueText,%classList,className,elementTiming,id,innerHTML,*beforecopy,*beforecut,*beforepaste,*fullscreenchange,*fullscreenerror,*search,*webkitfullscreenchange,*webkitfullscreenerror,outerHTML,%part,#scrollLeft,#scrollTop,slot,*message,*mozfullscreenchange,*mozfullscreenerror,*mozpointerlockchange,*mozpointerlockerror,*webglcontextcreationerror,*webglcontextlost,*webglcontextrestored",
	"[HTMLElement]^[Element]|accessKey,autocapitalize,!autofocus,contentEditable,dir,!draggable,enterKeyHint,!hidden,!inert,innerText,inputMode,lang,nonce,*abort,*animationend,*animationiteration,*animationstart,*auxclick,*beforexrselect,*blur,*cancel,*canplay,*canplaythrough,*change,*click,*close,*contextmenu,*copy,*cuechange,*cut,*dblclick,*drag,*dragend,*dragenter,*dragleave,*dragover,*dragstart,*drop,*durationchange,*emptied,*ended,*error,*focus,*formdata,*gotpointercapture,*input,*invalid,*keydown,*keypress,*keyup,*load,*loadeddata,*loadedmetadata,*loadstart,*lostpointercapture,*mousedown,*mouseenter,*mouseleave,*mousemove,*mouseout,*mouseover,*mouseup,*mousewheel,*paste,*pause,*play,*playing,*pointercancel,*pointerdown,*pointerenter,*pointerleave,*pointermove,*pointerout,*pointerover,*pointerrawupdate,*pointerup,*progress,*ratechange,*reset,*resize,*scroll,*securitypolicyviolation,*seeked,*seeking,*select,*selectionchange,*selectstart,*slotchange,*stalled,*submit,*suspend,*timeupdate,*toggle,*transitioncancel,*transitionend,*transitionrun,*transitionstart,*volumechange,*waiting,*webkitanimationend,*webkitanimationiteration,*webkitanimationstart,*webkittransitionend,*wheel,outerText,!spellcheck,%style,#tabIndex,title,!translate,virtualKeyboardPolicy",
	"abbr,address,article,aside,b,bdi,bdo,cite,content,code,dd,dfn,dt,em,figcaption,figure,footer,header,hgroup,i,kbd,main,mark,nav,noscript,rb,rp,rt,rtc,ruby,s,samp,section,small,strong,sub,sup,u,var,wbr^[HTMLElement]|",
	"media^[HTMLElement]|!autoplay,!controls,%controlsList,%crossOrigin,#currentTime,!defaultMuted,#defaultPlaybackRate,!disableRemotePlayback,!loop,!muted,*encrypted,*waitingforkey,#playbackRate,preload,!preservesPitch,src,%srcObject,#volume",
	"a^[HTMLElement]|charset,coords,download,hash,host,hostname,href,hreflang,name,password,pathname,ping,port,protocol,referrerPolicy,rel,%relList,rev,search,shape,target,text,type,username",
	"area^[HTMLElement]|alt,coords,download,hash,host,hostname,href,!noHref,password,pathname,ping,port,protocol,referrerPolicy,rel,%relList,search,shape,target,username",
	"audio^media|",
	"br^[HTMLElement]|clear",
	"base^[HTMLElement]|href,target",
	"body^[HTMLElement]|aLink,background,bgColor,link,*afterprint,*beforeprint,*beforeunload,*blur,*error,*focus,*hashchange,*languagechange,*load,*message,*messageerror,*offline,*online,*pagehide,*pageshow,*popstate,*rejectionhandled,*resize,*scroll,*storage,*unhandledrejection,*unload,text,vLink",
	"button^[HTMLElement]|!disabled,formAction,formEnctype,formMethod,!formNoValidate,formTarget,name,type,value",
	"canvas^[HTMLElement]|#height,#width",
	"content^[HTMLElement]|select",
	"dl^[HTMLElement]|!compact",
	"data^[HTMLElement]|value",
	"datalist^[HTMLElement]|",
	"details^[HTMLElement]|!open",
	"dialog^[HTMLElement]|!open,returnValue",
	"dir^[HTMLElement]|!compact",
	"div^[HTMLElement]|align",
	"embed^[HTMLElement]|align,height,name,src,type,width",
	"fieldset^[HTMLElement]|!disabled,name",
	"font^[HTMLElement]|color,face,size",
	"form^[HTMLElement]|acceptCharset,action,autocomplete,encoding,enctype,method,name,!noValidate,target",
	"frame^[HTMLElement]|frameBorder,longDesc,marginHeight,marginWidth,name,!noResize,scrolling,src",
	"frameset^[HTMLElement]|cols,*afterprint,*beforeprint,*beforeunload,*blur,*error,*focus,*hashchange,*languagechange,*load,*message,*offline,*online,*pagehide,*pageshow,*popstate,*rejectionhandled,*resize,*scroll,*storage,*unhandledrejection,*unload,rows",
	"hr^[HTMLElement]|align,color,!noShade,size,width",
	"head^[HTMLElement]|",
	"h1,h2,h3,h4,h5,h6^[HTMLElement]|align",
	"html^[HTMLElement]|version",
	"iframe^[HTMLElement]|align,allow,!allowFullscreen,!allowPaymentRequest,csp,frameBorder,height,loading,longDesc,marginHeight,marginWidth,name,referrerPolicy,%sandbox,scrolling,src,srcdoc,width",
	"img^[HTMLElement]|align,alt,border,%crossOrigin,decoding,#height,#hspace,!isMap,loading,longDesc,lowsrc,name,referrerPolicy,sizes,src,srcset,useMap,#vspace,#width",
	"input^[HTMLElement]|accept,align,alt,autocomplete,!checked,!defaultChecked,defaultValue,dirName,!disabled,%files,formAction,formEnctype,formMethod,!formNoValidate,formTarget,#height,!incremental,!indeterminate,max,#maxLength,min,#minLength,!multiple,name,pattern,placeholder,!readOnly,!required,selectionDirection,#selectionEnd,#selectionStart,#size,src,step,type,useMap,value,%valueAsDate,#valueAsNumber,#width",
	"li^[HTMLElement]|type,#value",
	"label^[HTMLElement]|htmlFor",
	"legend^[HTMLElement]|align",
	"link^[HTMLElement]|as,charset,%crossOrigin,!disabled,href,hreflang,imageSizes,imageSrcset,integrity,media,referrerPolicy,rel,%relList,rev,%sizes,target,type",
	"map^[HTMLElement]|name",
	"marquee^[HTMLElement]|behavior,bgColor,direction,height,#hspace,#loop,#scrollAmount,#scrollDelay,!trueSpeed,#vspace,width",
	"menu^[HTMLElement]|!compact",
	"meta^[HTMLElement]|content,httpEquiv,media,name,scheme",
	"meter^[HTMLElement]|#high,#low,#max,#min,#optimum,#value",
	"ins,del^[HTMLElement]|cite,dateTime",
	"ol^[HTMLElement]|!compact,!reversed,#start,type",
	"object^[HTMLElement]|align,archive,border,code,codeBase,codeType,data,!declare,height,#hspace,name,standby,type,useMap,#vspace,width",
	"optgroup^[HTMLElement]|!disabled,label",
	"option^[HTMLElement]|!defaultSelected,!disabled,label,!selected,text,value",
	"output^[HTMLElement]|defaultValue,%htmlFor,name,value",
	"p^[HTMLElement]|align",
	"param^[HTMLElement]|name,type,value,valueType",
	"picture^[HTMLElement]|",
	"pre^[HTMLElement]|#width",
	"progress^[HTMLElement]|#max,#value",
	"q,blockquote,cite^[HTMLElement]|",
	"script^[HTMLElement]|!async,charset,%crossOrigin,!defer,event,htmlFor,integrity,!noModule,%referrerPolicy,src,text,type",
	"select^[HTMLElement]|autocomplete,!disabled,#length,!multiple,name,!required,#selectedIndex,#size,value",
	"slot^[HTMLElement]|name",
	"source^[HTMLElement]|#height,media,sizes,src,srcset,type,#width",
	"span^[HTMLElement]|",
	"style^[HTMLElement]|!disabled,media,type",
	"caption^[HTMLElement]|align",
	"th,td^[HTMLElement]|abbr,align,axis,bgColor,ch,chOff,#colSpan,headers,height,!noWrap,#rowSpan,scope,vAlign,width",
	"col,colgroup^[HTMLElement]|align,ch,chOff,#span,vAlign,width",
	"table^[HTMLElement]|align,bgColor,border,%caption,cellPadding,cellSpacing,frame,rules,summary,%tFoot,%tHead,width",
	"tr^[HTMLElement]|align,bgColor,ch,chOff,vAlign",
	"tfoot,thead,tbody^[HTMLElement]|align,ch,chOff,vAlign",
	"template^[HTMLElement]|",
	"textarea^[HTMLElement]|autocomplete,#cols,defaultValue,dirName,!disabled,#maxLength,#minLength,name,placeholder,!readOnly,!required,#rows,selectionDirection,#selectionEnd,#selectionStart,value,wrap",
	"time^[HTMLElement]|dateTime",
	"title^[HTMLElement]|text",
	"track^[HTMLElement]|!default,kind,label,src,srclang",
	"ul^[HTMLElement]|!compact,type",
	"unknown^[HTMLElement]|",
	"video^media|!disablePictureInPicture,#height,*enterpictureinpicture,*leavepictureinpicture,!playsInline,poster,#width",
	"menuitem^[HTMLElement]|type,label,icon,!disabled,!checked,radiogroup,!default",
	"summary^[HTMLElement]|",
}

// attrToProp maps attribute spellings to their DOM property names.
var attrToProp = map[string]string{
	"class":      "className",
	"for":        "htmlFor",
	"formaction": "formAction",
	"innerHtml":  "innerHTML",
	"readonly":   "readOnly",
	"tabindex":   "tabIndex",
}

// DomElementSchemaRegistry is the ElementSchemaRegistry of the HTML DOM.
// It is immutable after construction.
type DomElementSchemaRegistry struct {
	schema     map[string]map[string]string
	events     map[string]map[string]bool
	attrToProp map[string]string
}

// RegistryOption configures a DomElementSchemaRegistry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	extensions []*SchemaExtension
}

// WithExtension layers additional element definitions and aliases on top of
// the built-in DOM schema. Extensions are applied in order.
func WithExtension(ext *SchemaExtension) RegistryOption {
	return func(o *registryOptions) {
		if ext != nil {
			o.extensions = append(o.extensions, ext)
		}
	}
}

// NewDomElementSchemaRegistry creates the DOM schema registry.
func NewDomElementSchemaRegistry(opts ...RegistryOption) *DomElementSchemaRegistry {
	r, err := BuildDomElementSchemaRegistry(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// BuildDomElementSchemaRegistry is NewDomElementSchemaRegistry for callers
// that pass extensions loaded at runtime and want errors instead of a panic.
func BuildDomElementSchemaRegistry(opts ...RegistryOption) (*DomElementSchemaRegistry, error) {
	o := &registryOptions{}
	for _, opt := range opts {
		opt(o)
	}

	r := &DomElementSchemaRegistry{
		schema:     make(map[string]map[string]string),
		events:     make(map[string]map[string]bool),
		attrToProp: make(map[string]string, len(attrToProp)),
	}
	for k, v := range attrToProp {
		r.attrToProp[k] = v
	}
	for _, encoded := range domSchema {
		if err := r.define(encoded); err != nil {
			return nil, err
		}
	}
	for _, ext := range o.extensions {
		if err := r.extend(ext); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *DomElementSchemaRegistry) define(encoded string) error {
	strType, strProperties, ok := strings.Cut(encoded, "|")
	if !ok {
		return fmt.Errorf("%w: missing '|' in %q", ErrInvalidExtension, encoded)
	}
	typeNames, superName, _ := strings.Cut(strType, "^")
	var props []string
	if strProperties != "" {
		props = strings.Split(strProperties, ",")
	}
	return r.defineElements(strings.Split(typeNames, ","), superName, props)
}

func (r *DomElementSchemaRegistry) defineElements(tagNames []string, superName string, props []string) error {
	var superType map[string]string
	var superEvents map[string]bool
	if superName != "" {
		key := strings.ToLower(superName)
		var ok bool
		if superType, ok = r.schema[key]; !ok {
			return fmt.Errorf("%w: unknown parent element %q", ErrInvalidExtension, superName)
		}
		superEvents = r.events[key]
	}

	for _, tag := range tagNames {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		typ, ok := r.schema[tag]
		if !ok {
			typ = make(map[string]string)
			r.schema[tag] = typ
			r.events[tag] = make(map[string]bool)
		}
		events := r.events[tag]
		for name, kind := range superType {
			typ[name] = kind
		}
		for name := range superEvents {
			events[name] = true
		}
		for _, prop := range props {
			prop = strings.TrimSpace(prop)
			if prop == "" {
				continue
			}
			switch prop[0] {
			case '*':
				events[prop[1:]] = true
			case '!':
				typ[prop[1:]] = boolean
			case '#':
				typ[prop[1:]] = number
			case '%':
				typ[prop[1:]] = object
			default:
				typ[prop] = str
			}
		}
	}
	return nil
}

// HasProperty checks if a property exists on an element
func (r *DomElementSchemaRegistry) HasProperty(tagName string, propName string, schemaMetas []*core.SchemaMetadata) bool {
	if core.HasSchema(schemaMetas, core.NO_ERRORS_SCHEMA.Name) {
		return true
	}

	if strings.Contains(tagName, "-") {
		if isNgContainer(tagName) || isNgContent(tagName) {
			return false
		}
		if core.HasSchema(schemaMetas, core.CUSTOM_ELEMENTS_SCHEMA.Name) {
			// Can't tell now as we don't know which properties a custom element will get
			// once it is instantiated
			return true
		}
	}

	elementProperties, ok := r.schema[strings.ToLower(tagName)]
	if !ok {
		elementProperties = r.schema["unknown"]
	}
	_, ok = elementProperties[propName]
	return ok
}

// HasElement checks if an element exists
func (r *DomElementSchemaRegistry) HasElement(tagName string, schemaMetas []*core.SchemaMetadata) bool {
	if core.HasSchema(schemaMetas, core.NO_ERRORS_SCHEMA.Name) {
		return true
	}

	if strings.Contains(tagName, "-") {
		if isNgContainer(tagName) || isNgContent(tagName) {
			return true
		}
		if core.HasSchema(schemaMetas, core.CUSTOM_ELEMENTS_SCHEMA.Name) {
			return true
		}
	}

	_, ok := r.schema[strings.ToLower(tagName)]
	return ok
}

// SecurityContext returns the security context for a property
func (r *DomElementSchemaRegistry) SecurityContext(tagName string, propName string, isAttribute bool) core.SecurityContext {
	if isAttribute {
		// NB: For security purposes, use the mapped property name, not the attribute name.
		propName = r.GetMappedPropName(propName)
	}

	// Make sure comparisons are case insensitive, so that case differences between attribute and
	// property names do not have a security impact.
	tagName = strings.ToLower(tagName)
	propName = strings.ToLower(propName)
	if ctx, ok := SecuritySchema()[tagName+"|"+propName]; ok {
		return ctx
	}
	if ctx, ok := SecuritySchema()["*|"+propName]; ok {
		return ctx
	}
	return core.SecurityContextNONE
}

// GetMappedPropName returns the mapped property name
func (r *DomElementSchemaRegistry) GetMappedPropName(propName string) string {
	if mapped, ok := r.attrToProp[propName]; ok {
		return mapped
	}
	return propName
}

// GetDefaultComponentElementName returns the default component element name
func (r *DomElementSchemaRegistry) GetDefaultComponentElementName() string {
	return "ng-component"
}

// AllKnownElementNames returns the concrete element names, sorted.
func (r *DomElementSchemaRegistry) AllKnownElementNames() []string {
	names := make([]string, 0, len(r.schema))
	for name := range r.schema {
		if strings.HasPrefix(name, "[") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyType returns the value type ("string", "number", "boolean" or
// "object") of a property, or "" when the element does not have it.
func (r *DomElementSchemaRegistry) PropertyType(tagName string, propName string) string {
	elementProperties, ok := r.schema[strings.ToLower(tagName)]
	if !ok {
		elementProperties = r.schema["unknown"]
	}
	return elementProperties[propName]
}

// HasEvent reports whether the element declares an event called eventName.
func (r *DomElementSchemaRegistry) HasEvent(tagName string, eventName string) bool {
	events, ok := r.events[strings.ToLower(tagName)]
	if !ok {
		events = r.events["unknown"]
	}
	return events[eventName]
}

func isNgContainer(tagName string) bool {
	return tagName == "ng-container"
}

func isNgContent(tagName string) bool {
	return tagName == "ng-content"
}
